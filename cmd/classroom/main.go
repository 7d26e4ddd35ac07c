package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dtroode/classroom-auth/internal/app"
	"github.com/dtroode/classroom-auth/internal/config"
	"github.com/dtroode/classroom-auth/internal/logger"
	"github.com/dtroode/classroom-auth/internal/model"
	"github.com/dtroode/classroom-auth/internal/oauth"
	"github.com/dtroode/classroom-auth/internal/server"
	"github.com/dtroode/classroom-auth/internal/service"
	"github.com/dtroode/classroom-auth/internal/session"
	"github.com/dtroode/classroom-auth/internal/storage/memory"
	"github.com/dtroode/classroom-auth/internal/ui/terminal"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const usage = `usage: classroom <command> [flags]

commands:
  restore   resume a remembered session
  login     -email -password [-type teacher|student] [-remember]
  signup    -email -password -confirm -first -last [-type] [-school -subject | -class-code] [-grade]
  reset     [-email] [-type]
  oauth     -provider "Continue with Google" [-type]
  logout
  version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if os.Args[1] == "version" {
		logAppVersion()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	durable, closer, err := app.OpenDurableScope(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer closer.Close()

	store := session.NewStore(durable, memory.NewScope(), logger)

	backend, err := app.NewBackend(cfg, store, logger)
	if err != nil {
		closer.Close()
		logger.Fatal("failed to initialize backend", "error", err)
	}
	view := terminal.NewView(os.Stdout, os.Stdin)
	navigator := terminal.NewNavigator(os.Stdout, func(target string) error {
		// the URL is printed either way
		if err := openBrowser(target); err != nil {
			logger.Warn("failed to open browser", "error", err)
		}
		return nil
	})

	ctrl := service.NewController(backend, store, view, navigator, logger, service.ControllerOptions{
		Navigation:       cfg.Navigation,
		OAuthRedirectURL: cfg.OAuth.RedirectURL(),
	})

	c := &cli{cfg: cfg, logger: logger, ctrl: ctrl, navigator: navigator}
	if err := c.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Debug("command finished with error", "command", os.Args[1], "error", err)
		closer.Close()
		os.Exit(1)
	}
}

type cli struct {
	cfg       *config.Config
	logger    *logger.Logger
	ctrl      *service.Controller
	navigator *terminal.Navigator
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	ctrl := c.ctrl
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	userType := fs.String("type", string(model.DefaultUserType), "account type: teacher or student")

	switch command {
	case "restore":
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := ctrl.RestoreSessionOnLoad(ctx); err != nil {
			if errors.Is(err, model.ErrTokenInvalid) {
				fmt.Println("Your session has expired. Please log in.")
			}
			return err
		}
		if c.navigator.Current() == "" {
			fmt.Println("No saved session. Please log in.")
		}
		return nil

	case "login":
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		remember := fs.Bool("remember", false, "keep the session after exit")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := selectUserType(ctrl, *userType); err != nil {
			return err
		}
		return ctrl.SubmitLogin(ctx, *email, *password, *remember)

	case "signup":
		form := service.SignupForm{}
		fs.StringVar(&form.Email, "email", "", "account email")
		fs.StringVar(&form.Password, "password", "", "account password")
		fs.StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation")
		fs.StringVar(&form.FirstName, "first", "", "first name")
		fs.StringVar(&form.LastName, "last", "", "last name")
		fs.StringVar(&form.School, "school", "", "school (teachers)")
		fs.StringVar(&form.Subject, "subject", "", "subject (teachers)")
		fs.StringVar(&form.ClassCode, "class-code", "", "class code (students)")
		fs.StringVar(&form.Grade, "grade", "", "grade")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := selectUserType(ctrl, *userType); err != nil {
			return err
		}
		ctrl.SwitchTab(model.TabSignup)
		return ctrl.SubmitSignup(ctx, form)

	case "reset":
		email := fs.String("email", "", "account email; prompted when empty")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := selectUserType(ctrl, *userType); err != nil {
			return err
		}
		return ctrl.RequestPasswordReset(ctx, *email)

	case "oauth":
		label := fs.String("provider", "Continue with Google", "social login button label")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := selectUserType(ctrl, *userType); err != nil {
			return err
		}
		return c.socialLogin(ctx, *label)

	case "logout":
		if err := fs.Parse(args); err != nil {
			return err
		}
		return ctrl.Logout(ctx)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func selectUserType(ctrl *service.Controller, raw string) error {
	userType, err := model.ParseUserType(raw)
	if err != nil {
		return err
	}
	ctrl.SelectUserType(userType)
	return nil
}

// socialLogin runs the loopback receiver for the duration of one OAuth round trip.
func (c *cli) socialLogin(ctx context.Context, label string) error {
	logger := c.logger
	receiver := oauth.NewReceiver(c.cfg.OAuth.CallbackAddr, c.cfg.OAuth.CallbackPath, logger)

	bound, err := server.Bind(server.NewPlainListener(), receiver.Address())
	if err != nil {
		return fmt.Errorf("failed to bind oauth receiver: %w", err)
	}

	startErr := make(chan error, 1)
	go func(s model.Server) {
		logger.Info("Starting OAuth receiver on", "address", bound.Addr().String())
		startErr <- s.Start(bound)
	}(receiver)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := receiver.Stop(shutdownCtx); err != nil {
			logger.Error("error during receiver shutdown", "error", err, "address", receiver.Address())
		}
	}()

	if err := c.ctrl.BeginSocialLogin(ctx, label); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.OAuth.WaitTimeout)
	defer cancel()

	callbacks := make(chan error, 1)
	go func() {
		u, err := receiver.Wait(waitCtx)
		if err != nil {
			callbacks <- err
			return
		}
		callbacks <- c.ctrl.HandleOAuthCallback(ctx, u)
	}()

	select {
	case err := <-startErr:
		if err != nil {
			return fmt.Errorf("failed to start oauth receiver: %w", err)
		}
		return errors.New("oauth receiver stopped unexpectedly")
	case err := <-callbacks:
		return err
	}
}

func openBrowser(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
