package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/testutils"
)

func TestTransferService_DatasetExportImportRoundTrip(t *testing.T) {
	service := NewTransferService(testutils.NewMockStore())
	original := testutils.SampleDataset()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	imported, errs := service.ImportDataset(data)
	require.Empty(t, errs, "a round-tripped dataset must re-validate with zero errors")
	require.NotNil(t, imported)
	assert.Equal(t, original, *imported)
}

func TestTransferService_ImportDatasetRejectsInvalid(t *testing.T) {
	service := NewTransferService(testutils.NewMockStore())

	dataset, errs := service.ImportDataset([]byte(`{"questionList": "nope"}`))
	assert.Nil(t, dataset)
	assert.Equal(t, []string{"questionList must be an array"}, errs)

	dataset, errs = service.ImportDataset([]byte(`not json`))
	assert.Nil(t, dataset)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Failed to parse JSON")
}

func TestTransferService_ImportConfigRejectsWrongEnvelope(t *testing.T) {
	service := NewTransferService(testutils.NewMockStore())

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "wrong type tag",
			raw:  `{"type": "something-else", "config": {}}`,
			want: "Invalid file type. This is not an EvalBuddy configuration file",
		},
		{
			name: "missing config payload",
			raw:  `{"type": "evalbuddy-config"}`,
			want: "Configuration data is missing from the file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := service.ImportConfig(context.Background(), []byte(tt.raw))
			assert.Nil(t, cfg)
			assert.Equal(t, []string{tt.want}, errs)
		})
	}
}

func TestTransferService_ConfigExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	service := NewTransferService(store)

	source, err := domain.NewDefaultConfig(domain.TypeBoolean, "True or False")
	require.NoError(t, err)

	data, filename, err := service.ExportConfig(source)
	require.NoError(t, err)
	assert.Equal(t, "True_or_False.conf", filename)

	imported, errs := service.ImportConfig(ctx, data)
	require.Empty(t, errs)
	require.NotNil(t, imported)

	// Identity is re-stamped; the rubric content survives untouched.
	assert.NotEqual(t, source.ID, imported.ID)
	assert.Equal(t, source.Name, imported.Name)
	assert.Equal(t, source.Type, imported.Type)
	assert.Equal(t, source.Settings, imported.Settings)

	stored, err := store.GetConfig(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, imported.Name, stored.Name)
}

func TestTransferService_ImportConfigRenamesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	service := NewTransferService(store)

	existing, err := domain.NewDefaultConfig(domain.TypeMastery, "Classroom Rubric")
	require.NoError(t, err)
	require.NoError(t, store.PutConfig(ctx, existing))

	data, _, err := service.ExportConfig(existing)
	require.NoError(t, err)

	imported, errs := service.ImportConfig(ctx, data)
	require.Empty(t, errs)
	assert.Equal(t, "Classroom Rubric (Imported)", imported.Name)

	// The original record is untouched.
	original, err := store.GetConfig(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classroom Rubric", original.Name)
}

func TestTransferService_ExportSession(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMockStore()
	service := NewTransferService(store)

	session := newTestSession(t, testutils.SampleDataset())
	session.Name = "Mid-Term Review!"
	evaluator := NewEvaluator(session, store)
	require.NoError(t, evaluator.EvaluateAndNext(ctx, "TOTAL", "parfait"))

	data, filename, err := service.ExportSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, "evaluation_Mid_Term_Review_")
	assert.Contains(t, filename, ".json")

	var envelope SessionExport
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, ExportVersion, envelope.Version)
	assert.Equal(t, session.ID, envelope.Session.ID)
	assert.Equal(t, 6, envelope.Summary.TotalItems)
	assert.Equal(t, 1, envelope.Summary.EvaluatedItems)
	assert.Len(t, envelope.Session.Results, 1)
}

func TestExportFilenames(t *testing.T) {
	exportedAt := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"evaluation_Sciences_G_n_rales_2025-01-14.json",
		SessionExportFilename("Sciences Générales", exportedAt))
	assert.Equal(t, "My_Config_v2.conf", ConfigExportFilename("My Config v2"))
}
