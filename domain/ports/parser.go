package ports

import "github.com/reglet-dev/sysdialog/domain/entities"

// ConfigParser parses raw configuration bytes into a Config.
type ConfigParser interface {
	// Parse unmarshals bytes over DefaultConfig, so omitted fields keep their defaults.
	Parse(data []byte) (*entities.Config, error)
}
