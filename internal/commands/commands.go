package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"remindme/internal/config"
	"remindme/internal/reminder"
	"remindme/internal/store"
	"remindme/internal/storage"
)

type rootOptions struct {
	ConfigPath string
	TUI        bool

	now func() time.Time
}

func (o *rootOptions) clock() time.Time {
	if o.now == nil {
		return time.Now()
	}
	return o.now()
}

func New() *cobra.Command {
	return newRoot(&rootOptions{})
}

func newRoot(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remindme",
		Short: "Terminal reminders with recurrence and desktop notifications.",
		Example: `
remindme add --text "Call mom" --time 18:00
remindme list
remindme notify
remindme --tui
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.TUI {
				return runTUI(o)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "path to config.toml (default $REMINDME_CONFIG or the user config dir)")
	cmd.Flags().BoolVar(&o.TUI, "tui", false, "start the interactive interface")

	AddCommands(cmd, o)
	return cmd
}

func AddCommands(topLevel *cobra.Command, o *rootOptions) {
	addAdd(topLevel, o)
	addList(topLevel, o)
	addDelete(topLevel, o)
	addEdit(topLevel, o)
	addNotify(topLevel, o)
	addTUI(topLevel, o)
	addWatch(topLevel, o)
	addExport(topLevel, o)
	addStats(topLevel, o)
	addSearch(topLevel, o)
	addReset(topLevel, o)
}

// workspace is one command's view of the configured store.
type workspace struct {
	cfg     config.Config
	backend storage.Backend
	store   *store.Store
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	} else {
		path = config.ExpandPath(path)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) openBackend() (config.Config, storage.Backend, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	backend, err := storage.Open(cfg.Backend, cfg.StorePath)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return cfg, backend, nil
}

// open loads the whole store. Nothing is written if loading fails.
func (o *rootOptions) open() (*workspace, error) {
	cfg, backend, err := o.openBackend()
	if err != nil {
		return nil, err
	}
	rs, err := backend.Load()
	if err != nil {
		backend.Close()
		return nil, err
	}
	s, err := store.Load(rs, store.WithClock(o.clock))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &workspace{cfg: cfg, backend: backend, store: s}, nil
}

func (w *workspace) save() error {
	return w.backend.Save(w.store.List())
}

func (w *workspace) Close() error {
	return w.backend.Close()
}

// targetOptions picks one reminder by id or by its 1-based list number.
type targetOptions struct {
	ID    string
	Index int
}

func addTargetFlags(cmd *cobra.Command, t *targetOptions) {
	cmd.Flags().StringVar(&t.ID, "id", "", "reminder id")
	cmd.Flags().IntVar(&t.Index, "index", 0, "reminder number as shown by list (1-based)")
}

func (t *targetOptions) resolve(cmd *cobra.Command, s *store.Store) (string, error) {
	hasIndex := cmd.Flags().Changed("index")
	switch {
	case t.ID != "" && hasIndex:
		return "", fmt.Errorf("%w: use either --id or --index, not both", reminder.ErrValidation)
	case t.ID != "":
		if _, err := s.Get(t.ID); err != nil {
			return "", err
		}
		return t.ID, nil
	case hasIndex:
		if t.Index < 1 {
			return "", fmt.Errorf("%w: index must be >= 1, got %d", reminder.ErrValidation, t.Index)
		}
		return s.ResolveIndex(t.Index - 1)
	default:
		return "", errors.New("one of --id or --index is required")
	}
}
