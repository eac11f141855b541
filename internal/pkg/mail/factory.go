package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP delivers through an SMTP relay.
	DriverSMTP = "smtp"
	// DriverMemory captures messages in process.
	DriverMemory = "memory"
	// DriverSpool queues messages in a SpoolStore.
	DriverSpool = "spool"
	// DriverNull discards messages.
	DriverNull = "null"
)

var (
	// ErrUnknownDriver indicates an unsupported mail driver.
	ErrUnknownDriver = errors.New("mail: unknown driver")
	// ErrSpoolStoreRequired is returned when the spool driver has no store.
	ErrSpoolStoreRequired = errors.New("mail: spool store is required")
)

// FactoryOptions groups configuration for the mail drivers.
type FactoryOptions struct {
	// From is the default sender of every driver.
	From         string
	SMTP         SMTPConfig
	SpoolStore   SpoolStore
	SpoolOptions []SpoolOption
}

// NewFromDriver constructs a Mail implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSMTP:
		cfg := opts.SMTP
		if cfg.From == "" {
			cfg.From = opts.From
		}
		smtp, err := NewSMTP(cfg)
		if err != nil {
			return nil, err
		}
		return smtp, nil
	case DriverMemory:
		return NewMemory(opts.From), nil
	case DriverSpool:
		if opts.SpoolStore == nil {
			return nil, ErrSpoolStoreRequired
		}
		return NewSpool(opts.SpoolStore, opts.From, opts.SpoolOptions...), nil
	case DriverNull:
		return NewNull(opts.From), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
