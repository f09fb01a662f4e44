package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/model"
	"github.com/bankentry-dev/bankentry/internal/money"
	"github.com/bankentry-dev/bankentry/internal/templates"
)

func newAddCommand() *cobra.Command {
	var dir string
	var date, description, category, amount, note, template string
	var verified bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(dir)
			if err != nil {
				return err
			}

			if date == "" {
				date = time.Now().Format(dates.Canonical)
			}

			draft := model.Draft{
				Date:        date,
				Description: description,
				Category:    category,
				Amount:      amount,
				Verified:    verified,
				ReviewNote:  note,
			}

			if template != "" {
				svc, err := templates.Load(ws.Dir)
				if err != nil {
					return err
				}
				tmpl, ok := svc.Get(template)
				if !ok {
					return fmt.Errorf("unknown template %q", template)
				}
				draft = fillFromTemplate(draft, tmpl, date)
			}

			if draft.Description == "" {
				return fmt.Errorf("--description is required (or use --template)")
			}
			if draft.Amount == "" {
				return fmt.Errorf("--amount is required (or use --template)")
			}

			session, closeStore, err := ws.OpenSession()
			if err != nil {
				return err
			}
			defer closeStore()

			rec, err := session.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}

			details := fmt.Sprintf("%s %s %s", rec.Date, rec.Description, money.Format(rec.Amount))
			if err := ws.recordActivity("add", details, strconv.FormatInt(rec.ID, 10)); err != nil {
				return err
			}

			fmt.Printf("Added #%d: %s %s %s (%s)\n", rec.ID, rec.Date, rec.Description, money.Format(rec.Amount), rec.Category)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVar(&date, "date", "", "transaction date (defaults to today)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&amount, "amount", "", "signed decimal amount")
	cmd.Flags().StringVar(&note, "note", "", "review note")
	cmd.Flags().BoolVar(&verified, "verified", false, "mark as verified")
	cmd.Flags().StringVar(&template, "template", "", "recurring template to fill defaults from")

	return cmd
}

// fillFromTemplate fills unset draft fields from a template. Explicit
// flags win over template defaults.
func fillFromTemplate(draft model.Draft, tmpl templates.Template, date string) model.Draft {
	base := tmpl.Draft(date)
	if draft.Description != "" {
		base.Description = draft.Description
	}
	if draft.Category != "" {
		base.Category = draft.Category
	}
	if draft.Amount != "" {
		base.Amount = draft.Amount
	}
	if draft.ReviewNote != "" {
		base.ReviewNote = draft.ReviewNote
	}
	base.Verified = base.Verified || draft.Verified
	return base
}
