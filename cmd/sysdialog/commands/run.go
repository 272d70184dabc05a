package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/reglet-dev/sysdialog"
	"github.com/reglet-dev/sysdialog/application/coordinator"
	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/errors"
	"github.com/reglet-dev/sysdialog/infrastructure/bus"
	"github.com/reglet-dev/sysdialog/infrastructure/permission"
	"github.com/reglet-dev/sysdialog/infrastructure/picker"
	"github.com/reglet-dev/sysdialog/infrastructure/prompter"
	"github.com/spf13/cobra"
)

const sessionHelp = `Commands:
  open_file                  pick a file and read it
  save_file [name]           pick where to create a file
  open_folder                pick a folder to read
  save_folder                pick a folder to write
  export <handle> <text...>  write text to a handle from save_file
  event <json>               publish a raw event envelope
  pending                    list deferred actions
  help                       show this help
  quit                       leave the session`

func newRunCmd(a *app) *cobra.Command {
	var (
		revision int
		granted  []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Permission prompts and pickers are
answered on the terminal; every answer travels through the event bus
to the coordinator like a platform result would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			out := &syncWriter{w: cmd.OutOrStdout()}
			s := &session{
				out:      out,
				prompter: prompter.NewCliPrompter(cmd.InOrStdin(), out),
				backend: permission.NewMemoryBackend(
					permission.WithRevision(revision),
					permission.WithGranted(granted...),
					permission.WithLogger(logger),
				),
				picker: picker.NewQueuePicker(logger),
				inbox:  bus.NewInbox(bus.WithLogger(logger)),
			}

			s.coord, err = sysdialog.New(cfg, s.backend, s.picker, s,
				sysdialog.WithFs(a.fs),
				sysdialog.WithLogger(logger),
				sysdialog.WithDenialHandler(s),
			)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := s.inbox.Start(ctx, s.coord); err != nil {
				return err
			}
			defer func() { _ = s.inbox.Close() }()

			return s.loop(ctx)
		},
	}

	cmd.Flags().IntVar(&revision, "revision", 30, "Platform revision reported to the permission gate")
	cmd.Flags().StringSliceVar(&granted, "granted", nil, "Capabilities granted before the session starts")
	return cmd
}

// syncWriter serialises writes from the REPL and the bus subscriber.
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// session is one interactive run. It is the coordinator's callbacks and
// denial handler, and answers the backend and picker queues from the prompter.
type session struct {
	out      io.Writer
	prompter *prompter.CliPrompter
	backend  *permission.MemoryBackend
	picker   *picker.QueuePicker
	inbox    *bus.Inbox
	coord    *coordinator.Coordinator
}

func (s *session) loop(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, "Type 'help' for commands.")
	for {
		line, err := s.prompter.ReadLine("sysdialog> ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		done, err := s.exec(ctx, line)
		if err != nil {
			_, _ = fmt.Fprintf(s.out, "error: %v\n", errors.ToErrorDetail(err))
		}
		if done {
			return nil
		}
		if err := s.pump(ctx); err != nil {
			return err
		}
	}
}

// exec runs one REPL command and reports whether the session should end.
func (s *session) exec(ctx context.Context, line string) (bool, error) {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "open_file":
		return false, s.coord.OpenFile(ctx)
	case "save_file":
		return false, s.coord.SaveFile(ctx, rest)
	case "open_folder":
		return false, s.coord.OpenFolder(ctx)
	case "save_folder":
		return false, s.coord.SaveFolder(ctx)
	case "export":
		handle, text, ok := strings.Cut(rest, " ")
		if !ok || handle == "" {
			return false, fmt.Errorf("usage: export <handle> <text...>")
		}
		return false, s.coord.ExportData(ctx, []byte(text), entities.ResourceHandle(handle))
	case "event":
		return false, s.inbox.PublishJSON(ctx, []byte(rest))
	case "pending":
		actions := s.coord.Pending()
		if len(actions) == 0 {
			_, _ = fmt.Fprintln(s.out, "no deferred actions")
		}
		for _, action := range actions {
			_, _ = fmt.Fprintln(s.out, action.String())
		}
		return false, nil
	case "help", "?":
		_, _ = fmt.Fprintln(s.out, sessionHelp)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", verb)
	}
}

// pump answers outstanding permission and picker requests until both queues
// stay empty. Publishing blocks until the coordinator has handled the event,
// which may queue further requests.
func (s *session) pump(ctx context.Context) error {
	for {
		perms := s.backend.Take()
		picks := s.picker.Take()
		if len(perms) == 0 && len(picks) == 0 {
			return nil
		}

		for _, req := range perms {
			results, err := s.prompter.PromptForCapabilities(req.Capabilities)
			if err != nil {
				return err
			}
			ev, err := s.backend.Apply(req, results)
			if err != nil {
				return err
			}
			if err := s.inbox.Publish(ctx, ev); err != nil {
				return err
			}
		}

		for _, req := range picks {
			handle, err := s.prompter.PromptForHandle(req.Kind, req.PreferredName)
			if err != nil {
				return err
			}
			if err := s.inbox.Publish(ctx, req.Select(handle)); err != nil {
				return err
			}
		}
	}
}

func (s *session) OnFileSelected(path string, data []byte) {
	_, _ = fmt.Fprintf(s.out, "opened %s (%d bytes)\n", path, len(data))
}

func (s *session) OnFileSaved(path string) {
	_, _ = fmt.Fprintf(s.out, "save target %s\n", path)
}

func (s *session) OnFolderSelected(path string) {
	_, _ = fmt.Fprintf(s.out, "opened folder %s\n", path)
}

func (s *session) OnFolderSaved(path string) {
	_, _ = fmt.Fprintf(s.out, "save folder %s\n", path)
}

func (s *session) OnExportFailed() {
	_, _ = fmt.Fprintln(s.out, "export failed")
}

func (s *session) OnImportFailed() {
	_, _ = fmt.Fprintln(s.out, "import failed")
}

func (s *session) OnDenial(action entities.PendingAction, missing []entities.Capability, reason string) {
	names := make([]string, 0, len(missing))
	for _, c := range missing {
		names = append(names, c.Name)
	}
	_, _ = fmt.Fprintf(s.out, "Storage permissions are required for %s (%s): %s\n",
		action.Kind, reason, strings.Join(names, ", "))
}
