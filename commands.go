package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Aashish23092/qr-document-portal/client"
	"github.com/Aashish23092/qr-document-portal/config"
	"github.com/Aashish23092/qr-document-portal/dto"
	"github.com/Aashish23092/qr-document-portal/handler"
	"github.com/Aashish23092/qr-document-portal/service"
	"github.com/Aashish23092/qr-document-portal/utils"
	"github.com/Aashish23092/qr-document-portal/utils/employeeid"
)

// app holds what every command builds from configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *service.Metrics
	docs    *client.DocumentClient
	links   service.Links
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	metrics := service.NewMetrics()
	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		docs:    client.NewDocumentClient(cfg.DocumentAPIURL, cfg.RequestTimeout, logger).WithObserver(metrics),
		links:   service.Links{PublicAPIURL: cfg.PublicAPIURL, PortalPublicURL: cfg.PortalPublicURL},
	}, nil
}

func (a *app) newController(n service.Notifier) *service.ScanAddController {
	return service.NewScanAddController(service.ControllerDeps{
		Docs:     a.docs,
		Notifier: n,
		Links:    a.links,
		FormDefaults: service.FormDefaults{
			IssuedBy:   a.cfg.IssuedByDefault,
			ImageMaxPx: a.cfg.EmployeeImageMaxPx,
		},
		Metrics: a.metrics,
		Logger:  a.logger,
	})
}

func (a *app) organization() service.Organization {
	return service.Organization{Name: a.cfg.OrganizationName, VerifyURL: a.cfg.OrganizationVerifyURL}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	sessions := service.NewSessionStore(a.cfg.SessionTTL, a.newController, a.metrics, a.logger)
	go sessions.Run(ctx, time.Minute)

	router, err := handler.NewRouter(handler.RouterDeps{
		Docs:           a.docs,
		Sessions:       sessions,
		Links:          a.links,
		Organization:   a.organization(),
		Metrics:        a.metrics,
		Logger:         a.logger,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting QR document portal", "port", a.cfg.ServerPort, "document_api", a.cfg.DocumentAPIURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List employees and their QR-embedded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			flash := printNotifier(cmd.ErrOrStderr())
			page := service.NewDirectoryView(a.docs, a.links, flash, a.logger).Load(cmd.Context())
			printDirectory(cmd.OutOrStdout(), page)
			return nil
		},
	}
}

func printDirectory(w io.Writer, page service.DirectoryPage) {
	if page.State != service.StatePopulated {
		fmt.Fprintln(w, "No employees found.")
		return
	}
	for _, item := range page.Items {
		fmt.Fprintf(w, "%s (%s)\n  %s - %s, joined %s\n", item.Name, item.EmployeeID, item.Designation, item.Department, item.JoinedOn)
		if len(item.Documents) == 0 {
			fmt.Fprintln(w, "  No QR-embedded documents found.")
			continue
		}
		for _, d := range item.Documents {
			fmt.Fprintf(w, "  - %s\n", d.DownloadRef)
		}
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <employee-id | verification-url>",
		Short: "Look up an employee certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id := employeeid.ParseEmployeeID(args[0])
			if id == "" {
				id = args[0]
			}
			page := service.NewVerifyView(a.docs, a.links, a.organization(), a.logger).Load(cmd.Context(), id)

			w := cmd.OutOrStdout()
			if page.State != service.StateFound {
				return fmt.Errorf("no employee found with ID: %s", page.EmployeeID)
			}
			cert := page.Certificate
			fmt.Fprintf(w, "%s (%s)\n%s - %s at %s\nJoined on %s\nIssued by %s on %s\n%s\n",
				cert.Name, cert.EmployeeID, cert.Designation, cert.Department, cert.Issuer.Name,
				cert.JoinedOn, cert.IssuedBy, cert.IssuedOn, cert.VerifyURL)
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a document for an embedded QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			files, err := readFiles(args)
			if err != nil {
				return err
			}

			ctrl := a.newController(printNotifier(cmd.ErrOrStderr()))
			ctrl.SelectFiles(files)
			ctrl.ChooseMode(dto.ModeScan)
			if err := runScan(cmd.Context(), ctrl); err != nil {
				return err
			}
			if qr := ctrl.Snapshot().QRMatch; qr != nil {
				fmt.Fprintln(cmd.OutOrStdout(), *qr)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var rec struct {
		name, department, designation, joined, issuedBy, image string
	}
	cmd := &cobra.Command{
		Use:   "add <file...>",
		Short: "Embed an employee QR code into documents that have none",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			files, err := readFiles(args)
			if err != nil {
				return err
			}
			var photo *dto.SelectedFile
			if rec.image != "" {
				imgs, err := readFiles([]string{rec.image})
				if err != nil {
					return err
				}
				photo = &imgs[0]
			}

			ctrl := a.newController(printNotifier(cmd.ErrOrStderr()))
			ctrl.SelectFiles(files)
			ctrl.ChooseMode(dto.ModeAdd)
			if err := runScan(cmd.Context(), ctrl); err != nil {
				return err
			}
			if qr := ctrl.Snapshot().QRMatch; qr != nil {
				return fmt.Errorf("document already carries a QR code: %s", *qr)
			}

			done, err := ctrl.CaptureAndSubmit(cmd.Context(), func(f *service.EmployeeForm) {
				f.SetName(rec.name)
				f.SetDepartment(rec.department)
				f.SetDesignation(rec.designation)
				f.SetDateOfJoining(rec.joined)
				if rec.issuedBy != "" {
					f.SetIssuedBy(rec.issuedBy)
				}
				if photo != nil {
					f.SetImage(photo.Name, photo.Data, photo.MIMEType)
				}
			})
			if err != nil {
				return err
			}
			<-done

			s := ctrl.Snapshot()
			if s.Phase != dto.PhaseComplete {
				return errors.New(s.LastError)
			}
			w := cmd.OutOrStdout()
			for _, r := range s.ResultFiles {
				fmt.Fprintln(w, r.DownloadRef)
			}
			if s.ArchiveRef != "" {
				fmt.Fprintln(w, s.ArchiveRef)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rec.name, "name", "", "Employee name")
	cmd.Flags().StringVar(&rec.department, "department", "", "Department")
	cmd.Flags().StringVar(&rec.designation, "designation", "", "Designation")
	cmd.Flags().StringVar(&rec.joined, "joined", "", "Date of joining (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rec.issuedBy, "issued-by", "", "Issuer (defaults to the configured value)")
	cmd.Flags().StringVar(&rec.image, "image", "", "Employee photo")
	return cmd
}

// runScan scans the first selected file and waits for the outcome.
func runScan(ctx context.Context, ctrl *service.ScanAddController) error {
	done, err := ctrl.StartScan(ctx)
	if err != nil {
		return err
	}
	<-done
	if msg := ctrl.Snapshot().LastError; msg != "" {
		return errors.New(msg)
	}
	return nil
}

func readFiles(paths []string) ([]dto.SelectedFile, error) {
	files := make([]dto.SelectedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, utils.NewSelectedFile(filepath.Base(p), data, ""))
	}
	return files, nil
}

func printNotifier(w io.Writer) service.Notifier {
	return service.NotifierFunc(func(kind service.NotificationKind, message string) {
		fmt.Fprintf(w, "[%s] %s\n", kind, message)
	})
}
