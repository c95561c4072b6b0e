package models

import (
	"path"

	"github.com/kardianos/osext"
)

// AppConfig is the application's main configuration structure
type AppConfig struct {
	// The directory where Rostra stores all of its data - defaults to the /data subdirectory of the folder, the
	// Rostra executable resides in
	DataDir string `json:"dataDir"`
	// The credentials for the default administrator account that is created on startup
	DefaultUser *DefaultUserConfig `json:"defaultUser"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress"`
	// How many minutes an open event draft survives without being touched before it is discarded
	DraftExpiryMinutes uint `json:"draftExpiryMinutes"`
}

// The DefaultUserConfig struct configures the default user that can log in
// In a later version, this will be replaced by a full user management
type DefaultUserConfig struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir: path.Join(execDir, "data"),
		DefaultUser: &DefaultUserConfig{
			Name:     "admin",
			Password: "changeme",
		},
		ListenAddress:      ":3000",
		DraftExpiryMinutes: 120,
	}, nil
}
