package mlmodels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yahyarahhawi/StitchGuard-db/pkg/config"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/db/models"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/enums"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/pagination"
)

func newTestService(t *testing.T, cfg config.ModelsConfig) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MLModel{}))

	svc, err := NewService(NewRepository(db), cfg)
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func TestModelLifecycle(t *testing.T) {
	svc := newTestService(t, config.ModelsConfig{})
	ctx := context.Background()

	platform := enums.ModelPlatformCoreML
	created, err := svc.CreateModel(ctx, CreateModelInput{
		Name:     "flaw-detector",
		Version:  strPtr("1.2.0"),
		Platform: &platform,
		FileURL:  strPtr("https://cdn.example.com/flaw-detector.mlmodel"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.GetModel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "flaw-detector", fetched.Name)
	require.NotNil(t, fetched.Platform)
	assert.Equal(t, enums.ModelPlatformCoreML, *fetched.Platform)

	updated, err := svc.UpdateModel(ctx, created.ID, UpdateModelInput{Version: strPtr("1.3.0")})
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", *updated.Version)
	assert.Equal(t, "flaw-detector", updated.Name)

	require.NoError(t, svc.DeleteModel(ctx, created.ID))

	_, err = svc.GetModel(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateModelValidation(t *testing.T) {
	svc := newTestService(t, config.ModelsConfig{})
	ctx := context.Background()

	_, err := svc.CreateModel(ctx, CreateModelInput{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	bad := enums.ModelPlatform("tflite")
	_, err = svc.CreateModel(ctx, CreateModelInput{Name: "m", Platform: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListModelsFilters(t *testing.T) {
	svc := newTestService(t, config.ModelsConfig{})
	ctx := context.Background()

	coreml := enums.ModelPlatformCoreML
	onnx := enums.ModelPlatformONNX
	for _, input := range []CreateModelInput{
		{Name: "a", Type: strPtr("detector"), Platform: &coreml},
		{Name: "b", Type: strPtr("detector"), Platform: &onnx},
		{Name: "c", Type: strPtr("classifier"), Platform: &onnx},
	} {
		_, err := svc.CreateModel(ctx, input)
		require.NoError(t, err)
	}

	all, err := svc.ListModels(ctx, pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	detectors, err := svc.ListModels(ctx, pagination.Params{}, ListFilters{Type: strPtr("detector")})
	require.NoError(t, err)
	assert.Len(t, detectors, 2)

	onnxDetectors, err := svc.ListModels(ctx, pagination.Params{}, ListFilters{
		Type:     strPtr("detector"),
		Platform: strPtr("onnx"),
	})
	require.NoError(t, err)
	require.Len(t, onnxDetectors, 1)
	assert.Equal(t, "b", onnxDetectors[0].Name)
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "detector.onnx"), []byte("weights"), 0o600))

	svc := newTestService(t, config.ModelsConfig{FilesDir: dir})

	path, contentType, err := svc.ResolveFile("detector.onnx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "detector.onnx"), path)
	assert.Equal(t, "application/x-onnx", contentType)

	// path traversal gets clamped to the base name
	_, _, err = svc.ResolveFile("../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, _, err = svc.ResolveFile("missing.pt")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListFileURLs(t *testing.T) {
	svc := newTestService(t, config.ModelsConfig{FileURLs: map[string]string{
		"zeta":  "https://cdn.example.com/zeta.pt",
		"alpha": "https://cdn.example.com/alpha.onnx",
	}})

	urls := svc.ListFileURLs()
	require.Len(t, urls, 2)
	assert.Equal(t, "alpha", urls[0].Name)
	assert.Equal(t, "zeta", urls[1].Name)
}
