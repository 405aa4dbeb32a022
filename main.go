package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shandysiswandi/gomailer/internal/app"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
)

func main() {
	to := flag.String("to", "", "comma separated recipients, e.g. \"Jane <jane@example.com>, bob@example.com\"")
	subject := flag.String("subject", "", "email subject")
	text := flag.String("text", "", "plain-text body")
	html := flag.String("html", "", "HTML body")
	timeout := flag.Duration("timeout", 30*time.Second, "send timeout")
	flag.Parse()

	recipients, err := mail.ParseAddressList(*to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -to:", err)
		os.Exit(2)
	}

	application := app.New() // Initialize the application

	ctx, cancel := context.WithTimeout(application.Context(), *timeout)
	err = application.Send(ctx, mail.Message{
		Recipients: recipients,
		Subject:    *subject,
		Text:       *text,
		HTML:       *html,
	})
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	application.Stop(stopCtx) // flush telemetry before exit
	stopCancel()

	if err != nil {
		slog.Error("send failed", "code", mail.CodeOf(err).String(), "error", err)
		os.Exit(1)
	}
}
