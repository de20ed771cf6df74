package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"encuesta/internal/model"
	"encuesta/internal/service"
)

// SeedFile is a survey document plus the invitation codes issued for it
type SeedFile struct {
	Survey          model.Survey `yaml:"survey"`
	InvitationCodes []string     `yaml:"invitation_codes"`
}

// LoadSurveyFile reads and validates a YAML seed file
func LoadSurveyFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := validateSeed(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &seed, nil
}

func validateSeed(seed *SeedFile) error {
	if err := service.ValidateSurvey(&seed.Survey); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(seed.InvitationCodes))
	for i, code := range seed.InvitationCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("invitation code %d is empty", i)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("invitation code %q repeated", code)
		}
		seen[code] = struct{}{}
		seed.InvitationCodes[i] = code
	}
	return nil
}
