package application

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
)

// ExportVersion is the format version stamped on every export envelope.
const ExportVersion = "1.0"

// ConfigEnvelopeType is the discriminator tag on config transport
// documents; importers reject anything else.
const ConfigEnvelopeType = "evalbuddy-config"

// SessionExport is the transport envelope for a session document.
type SessionExport struct {
	Session    domain.EvaluationSession `json:"session"`
	Summary    domain.SessionSummary    `json:"summary"`
	ExportedAt time.Time                `json:"exportedAt"`
	Version    string                   `json:"version"`
}

// ConfigExport is the transport envelope for a config document.
type ConfigExport struct {
	Config     domain.EvaluationConfig `json:"config"`
	ExportedAt time.Time               `json:"exportedAt"`
	Version    string                  `json:"version"`
	Type       string                  `json:"type"`
}

// TransferService moves datasets, sessions, and configs across the file
// boundary. Validation is delegated to the document validators and storage
// to the store; a failed import never yields a partially-valid record.
type TransferService struct {
	store ports.Store
}

// NewTransferService creates a transfer service backed by the given store.
func NewTransferService(store ports.Store) *TransferService {
	return &TransferService{store: store}
}

// ImportDataset parses and validates a dataset document. It returns either
// a fully validated dataset or the accumulated errors, never both.
func (s *TransferService) ImportDataset(data []byte) (*domain.Dataset, []string) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []string{fmt.Sprintf("Failed to parse JSON: %v", err)}
	}

	if errs := ValidateDatasetDocument(doc); len(errs) > 0 {
		return nil, errs
	}

	var dataset domain.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, []string{fmt.Sprintf("Failed to parse JSON: %v", err)}
	}
	return &dataset, nil
}

// ImportConfig parses a config transport document, checks the envelope
// discriminator, validates the embedded config, and on success re-stamps
// id and timestamps so the import never collides with or inherits the
// identity of its source. If the name matches an existing config it is
// suffixed rather than overwriting; the result is written to the store.
func (s *TransferService) ImportConfig(ctx context.Context, data []byte) (*domain.EvaluationConfig, []string) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []string{fmt.Sprintf("Failed to parse configuration file: %v", err)}
	}

	if envelopeType, _ := doc["type"].(string); envelopeType != ConfigEnvelopeType {
		return nil, []string{"Invalid file type. This is not an EvalBuddy configuration file"}
	}
	rawConfig, ok := doc["config"]
	if !ok || rawConfig == nil {
		return nil, []string{"Configuration data is missing from the file"}
	}

	if errs := ValidateConfigDocument(rawConfig); len(errs) > 0 {
		return nil, errs
	}

	var envelope ConfigExport
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, []string{fmt.Sprintf("Failed to parse configuration file: %v", err)}
	}

	imported := envelope.Config
	now := time.Now().UTC()
	imported.ID = uuid.NewString()
	imported.CreatedAt = now
	imported.UpdatedAt = now

	existing, err := s.store.ListConfigs(ctx)
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to load existing configurations: %v", err)}
	}
	for _, cfg := range existing {
		if cfg.Name == imported.Name {
			imported.Name = imported.Name + " (Imported)"
			break
		}
	}

	if err := s.store.PutConfig(ctx, imported); err != nil {
		return nil, []string{fmt.Sprintf("Failed to save imported configuration: %v", err)}
	}
	return &imported, nil
}

// ExportSession wraps the persisted session and its summary in an export
// envelope. It returns the serialized document and the suggested filename.
func (s *TransferService) ExportSession(ctx context.Context, id string) ([]byte, string, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, "", err
	}

	envelope := SessionExport{
		Session:    session,
		Summary:    session.Summarize(),
		ExportedAt: time.Now().UTC(),
		Version:    ExportVersion,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", &ports.ParseError{Source: "session export", Err: err}
	}
	return data, SessionExportFilename(session.Name, envelope.ExportedAt), nil
}

// ExportConfig wraps a config in its transport envelope. It returns the
// serialized document and the suggested filename.
func (s *TransferService) ExportConfig(cfg domain.EvaluationConfig) ([]byte, string, error) {
	envelope := ConfigExport{
		Config:     domain.Clone(cfg),
		ExportedAt: time.Now().UTC(),
		Version:    ExportVersion,
		Type:       ConfigEnvelopeType,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", &ports.ParseError{Source: "config export", Err: err}
	}
	return data, ConfigExportFilename(cfg.Name), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SessionExportFilename names a session export from the sanitized session
// name and the export date.
func SessionExportFilename(sessionName string, exportedAt time.Time) string {
	safe := unsafeFilenameChars.ReplaceAllString(sessionName, "_")
	return fmt.Sprintf("evaluation_%s_%s.json", safe, exportedAt.Format("2006-01-02"))
}

// ConfigExportFilename names a config export from the sanitized config name.
func ConfigExportFilename(configName string) string {
	return unsafeFilenameChars.ReplaceAllString(configName, "_") + ".conf"
}
