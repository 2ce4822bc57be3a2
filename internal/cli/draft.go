package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/voyager/internal/config"
	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/draftcache"
	"github.com/pkordes/voyager/internal/service"
)

// draftOptions are the flags shared by the draft subcommands.
type draftOptions struct {
	UserID  string
	EnvFile string
}

func (o *draftOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.UserID, "user", "", "User id whose draft to use. Empty means the signed-out draft.")
	cmd.Flags().StringVar(&o.EnvFile, "env-file", ".env", "Environment file loaded before reading configuration.")
}

// openCache opens the configured store; the returned func releases it.
func (o *draftOptions) openCache(cmd *cobra.Command) (*draftcache.Cache, func(), error) {
	if err := config.LoadDotEnv(o.EnvFile); err != nil {
		return nil, nil, err
	}
	st, err := config.LoadStore()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	logger := newLogger("warn", cmd.ErrOrStderr())
	kv, closeStore, err := openStore(contextOf(cmd), st, logger)
	if err != nil {
		return nil, nil, err
	}
	return draftcache.New(kv, logger), closeStore, nil
}

func addDraft(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or clear cached trip drafts.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	addDraftShow(cmd)
	addDraftClear(cmd)

	topLevel.AddCommand(cmd)
}

func addDraftShow(parent *cobra.Command) {
	o := &draftOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a user's cached draft as JSON.",
		Example: `
planner draft show --user 42
DRAFT_STORE=redis planner draft show --user 42
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, closeStore, err := o.openCache(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			d, ok := cache.Load(contextOf(cmd), o.UserID)
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no cached draft")
				return err
			}
			b, err := json.MarshalIndent(viewOf(d), "", "  ")
			if err != nil {
				return fmt.Errorf("cli.draftShow: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	o.addFlags(cmd)

	parent.AddCommand(cmd)
}

func addDraftClear(parent *cobra.Command) {
	o := &draftOptions{}
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete a user's cached draft.",
		Example: `
planner draft clear --user 42
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, closeStore, err := o.openCache(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			cache.Clear(contextOf(cmd), o.UserID)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "draft cleared")
			return err
		},
	}
	o.addFlags(cmd)

	parent.AddCommand(cmd)
}

// draftView is the printed form of a draft.
type draftView struct {
	TripName             string                       `json:"tripName"`
	Destination          string                       `json:"destination"`
	SpecificDestinations []domain.SpecificDestination `json:"specificDestinations"`
	StartDate            string                       `json:"startDate,omitempty"`
	EndDate              string                       `json:"endDate,omitempty"`
	Currency             domain.Currency              `json:"currency"`
	BudgetAmount         int                          `json:"budgetAmount"`
	BudgetRange          string                       `json:"budgetRange"`
	Companions           domain.Companions            `json:"companions"`
	NumberOfPeople       int                          `json:"numberOfPeople"`
}

func viewOf(d domain.TripDraft) draftView {
	v := draftView{
		TripName:             d.TripName,
		Destination:          d.Destination,
		SpecificDestinations: d.SpecificDestinations,
		Currency:             d.Currency,
		BudgetAmount:         d.BudgetAmount,
		BudgetRange:          service.BudgetRange(d.Currency, d.BudgetAmount),
		Companions:           d.Companions,
		NumberOfPeople:       d.NumberOfPeople,
	}
	if v.SpecificDestinations == nil {
		v.SpecificDestinations = []domain.SpecificDestination{}
	}
	if d.StartDate != nil {
		v.StartDate = d.StartDate.Format(time.DateOnly)
	}
	if d.EndDate != nil {
		v.EndDate = d.EndDate.Format(time.DateOnly)
	}
	return v
}
