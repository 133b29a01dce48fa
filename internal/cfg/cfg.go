// Package cfg holds radalert's application configuration, following the
// flag-struct pattern used by the go-core packages.
package cfg

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Config adds application-specific configuration fields to the common
// cfg.Registerable and cfg.Validatable interfaces.
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	APIToken              string
	DatabaseURL           string

	ClassifierEndpoint string
	ClassifierModel    string

	TwilioAccountSID string
	TwilioAuthToken  string
	WhatsAppFrom     string
	DefaultWhatsApp  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	DefaultEmail string

	ReconcileIntervalSeconds int
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token guarding the admin config endpoints (empty = no auth)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.ClassifierEndpoint, "classifier-endpoint", "", "HTTP endpoint of the report classification service (empty = keyword heuristic only)")
	fs.StringVar(&c.ClassifierModel, "classifier-model", "PlanTL-GOB-ES/roberta-base-biomedical-clinical-es", "classification model name passed to the inference service")
	fs.StringVar(&c.TwilioAccountSID, "twilio-account-sid", "", "Twilio account SID for WhatsApp escalation (empty = channel off)")
	fs.StringVar(&c.TwilioAuthToken, "twilio-auth-token", "", "Twilio auth token")
	fs.StringVar(&c.WhatsAppFrom, "whatsapp-from", "whatsapp:+14155238886", "WhatsApp sender address")
	fs.StringVar(&c.DefaultWhatsApp, "default-whatsapp", "whatsapp:+573001234567", "default WhatsApp escalation target when no config override is set")
	fs.StringVar(&c.SMTPHost, "smtp-host", "smtp.gmail.com", "SMTP relay host for email escalation")
	fs.IntVar(&c.SMTPPort, "smtp-port", 587, "SMTP relay port (1..65535)")
	fs.StringVar(&c.SMTPUser, "smtp-user", "", "SMTP username and sender address (empty = channel off)")
	fs.StringVar(&c.SMTPPass, "smtp-pass", "", "SMTP password")
	fs.StringVar(&c.DefaultEmail, "default-email", "alertas@hospital.org", "default email escalation target when no config override is set")
	fs.IntVar(&c.ReconcileIntervalSeconds, "reconcile-interval-seconds", 10, "reconciliation worker poll interval in seconds (1..3600)")
}

// Validate checks all configuration fields for correctness. It returns an
// error describing every invalid field, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid SMTP_PORT %d (must be 1..65535)", c.SMTPPort))
	}

	if c.ReconcileIntervalSeconds <= 0 || c.ReconcileIntervalSeconds > 3600 {
		errs = append(errs, fmt.Errorf("invalid RECONCILE_INTERVAL_SECONDS %d (must be 1..3600)", c.ReconcileIntervalSeconds))
	}

	// Twilio credentials come in pairs.
	if c.TwilioAccountSID != "" && c.TwilioAuthToken == "" {
		errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required when TWILIO_ACCOUNT_SID is set"))
	}

	if c.TwilioAccountSID != "" && !strings.HasPrefix(c.WhatsAppFrom, "whatsapp:") {
		errs = append(errs, fmt.Errorf("invalid WHATSAPP_FROM %q (must start with whatsapp:)", c.WhatsAppFrom))
	}

	if c.ClassifierEndpoint != "" && c.ClassifierModel == "" {
		errs = append(errs, errors.New("CLASSIFIER_MODEL is required when CLASSIFIER_ENDPOINT is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
