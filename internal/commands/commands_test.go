package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankentry-dev/bankentry/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "bankentry-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "bankentry")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/bankentry")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runBankentry(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// initWorkspace initializes a throwaway workspace without git, so tests
// need no git identity configured.
func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runBankentry(t, "init", dir, "--name", "Test Ledger", "--no-git")
	require.NoError(t, err, out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initWorkspace(t)

	expectedDirs := []string{
		"logs",
		"templates",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Ledger", cfg.Workspace.Name)
	assert.Equal(t, "dual", cfg.Dates.Mode)

	_, err = os.Stat(filepath.Join(dir, "templates", "recurring.csv"))
	assert.NoError(t, err, "starter templates should be written")
}

func TestAddAndList(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir,
		"--date", "01/11/2025", "--description", "Salary", "--category", "Salary", "--amount", "2500")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added #1")
	assert.Contains(t, out, "2025/11/01", "date normalized day-first")

	out, err = runBankentry(t, "add", "--dir", dir,
		"--date", "03/11/2025", "--description", "Rent", "--category", "Housing", "--amount", "-1200")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added #2")

	out, err = runBankentry(t, "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "2 rows")
	assert.Contains(t, out, "net 1300.00")
}

func TestAdd_Template(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir, "--template", "rent", "--date", "2025/11/03")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "-1200.00")
}

func TestAdd_RequiresDescription(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir, "--amount", "5")
	require.Error(t, err)
	assert.Contains(t, out, "--description is required")
}

func TestImportAndExport(t *testing.T) {
	dir := initWorkspace(t)

	statement := filepath.Join(dir, "statement.csv")
	content := strings.Join([]string{
		"date,description,category,amount",
		"01/11/2025,Salary,Salary,2500",
		"13/13/2025,Broken,,1.00",
		"03/11/2025,Rent,Housing,-1200",
	}, "\n")
	require.NoError(t, os.WriteFile(statement, []byte(content), 0o644))

	out, err := runBankentry(t, "import", "--dir", dir, statement)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 added, 1 skipped")
	assert.Contains(t, out, "line 3", "the bad row is named")

	out, err = runBankentry(t, "export", "--dir", dir)
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "header plus the two good rows")
	assert.Contains(t, lines[1], "2025/11/01,Salary,Salary,2500.00")
	assert.Contains(t, lines[2], "2025/11/03,Rent,Housing,-1200.00")
}

func TestMerge_FilteredRoundTrip(t *testing.T) {
	dir := initWorkspace(t)

	for _, args := range [][]string{
		{"--date", "2025/01/10", "--description", "Groceries", "--amount", "-20.00"},
		{"--date", "2025/02/01", "--description", "Salary", "--amount", "100.00"},
	} {
		out, err := runBankentry(t, append([]string{"add", "--dir", dir}, args...)...)
		require.NoError(t, err, out)
	}

	// The edited file covers only the February view: id 2 changed, one
	// new row, id 1 invisible and untouchable.
	edited := filepath.Join(dir, "edited.csv")
	content := strings.Join([]string{
		"id,date,description,category,amount",
		"2,2025/02/01,Salary,uncategorized,150.00",
		",2025/02/14,Refund,uncategorized,30.00",
	}, "\n")
	require.NoError(t, os.WriteFile(edited, []byte(content), 0o644))

	out, err := runBankentry(t, "merge", "--dir", dir, edited,
		"--from", "2025/02/01", "--to", "2025/02/28")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 created, 1 updated, 0 deleted")

	out, err = runBankentry(t, "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 rows")
	assert.Contains(t, out, "Groceries", "hidden row survives")
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "Refund")
}

func TestMerge_DryRun(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir,
		"--date", "2025/02/01", "--description", "Salary", "--amount", "100.00")
	require.NoError(t, err, out)

	edited := filepath.Join(dir, "edited.csv")
	content := "id,date,description,category,amount\n1,2025/02/01,Salary,uncategorized,120.00\n"
	require.NoError(t, os.WriteFile(edited, []byte(content), 0o644))

	out, err = runBankentry(t, "merge", "--dir", dir, edited, "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Would apply: 0 creates, 1 updates, 0 deletes")

	out, err = runBankentry(t, "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "100.00", "dry run applies nothing")
}

func TestMerge_ConflictAborts(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir,
		"--date", "2025/02/01", "--description", "Salary", "--amount", "100.00")
	require.NoError(t, err, out)

	edited := filepath.Join(dir, "edited.csv")
	content := strings.Join([]string{
		"id,date,description,category,amount",
		"1,2025/02/01,Salary,uncategorized,100.00",
		"99,2025/02/02,Ghost,uncategorized,1.00",
	}, "\n")
	require.NoError(t, os.WriteFile(edited, []byte(content), 0o644))

	out, err = runBankentry(t, "merge", "--dir", dir, edited)
	require.Error(t, err)
	assert.Contains(t, out, "nothing applied")
	assert.Contains(t, out, "99")
}

func TestReport(t *testing.T) {
	dir := initWorkspace(t)

	for _, args := range [][]string{
		{"--date", "2025/01/05", "--description", "Invoice", "--category", "Sales", "--amount", "2500"},
		{"--date", "2025/01/15", "--description", "VAT on sales", "--category", "VAT Output", "--amount", "300"},
		{"--date", "2025/02/20", "--description", "Payroll tax", "--category", "PAYE", "--amount", "-650"},
	} {
		out, err := runBankentry(t, append([]string{"add", "--dir", dir}, args...)...)
		require.NoError(t, err, out)
	}

	out, err := runBankentry(t, "report", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Gross income")
	assert.Contains(t, out, "2800.00")
	assert.Contains(t, out, "300.00")
	assert.Contains(t, out, "-650.00")

	out, err = runBankentry(t, "report", "--dir", dir, "--monthly")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2025-01")
	assert.Contains(t, out, "2025-02")
}

func TestClear_RequiresForce(t *testing.T) {
	dir := initWorkspace(t)

	out, err := runBankentry(t, "add", "--dir", dir,
		"--date", "2025/01/05", "--description", "Keep", "--amount", "1")
	require.NoError(t, err, out)

	out, err = runBankentry(t, "clear", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "--force")

	out, err = runBankentry(t, "clear", "--dir", dir, "--force")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 rows deleted")

	out, err = runBankentry(t, "list", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 rows")
}

func TestCommands_OutsideWorkspace(t *testing.T) {
	dir := t.TempDir()

	out, err := runBankentry(t, "list", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "bankentry init")
}
