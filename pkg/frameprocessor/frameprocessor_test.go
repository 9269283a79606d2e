package frameprocessor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"ProjectFusion/internal/entity"
	websocketPkg "ProjectFusion/pkg/websocket"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInference struct {
	requests []websocketPkg.Request
	respond  func(req websocketPkg.Request) (*websocketPkg.Response, error)
}

func (f *fakeInference) Call(ctx context.Context, req websocketPkg.Request) (*websocketPkg.Response, error) {
	f.requests = append(f.requests, req)
	return f.respond(req)
}

func (f *fakeInference) IsConnected() bool { return true }
func (f *fakeInference) Close() error      { return nil }

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestRegistryResolvesInOrderAndCaches(t *testing.T) {
	client := &fakeInference{}
	registry := NewDefaultRegistry(entity.DefaultFusionConfig(), client, quietLogger())

	modules, err := registry.Modules([]string{FaceSwapper, FaceEnhancer})
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, FaceSwapper, modules[0].Name())
	assert.Equal(t, FaceEnhancer, modules[1].Name())

	again, err := registry.Modules([]string{FaceEnhancer})
	require.NoError(t, err)
	assert.Same(t, modules[1], again[0])
}

func TestRegistryUnknownProcessor(t *testing.T) {
	registry := NewRegistry(entity.DefaultFusionConfig())

	_, err := registry.Modules([]string{"frame_colorizer"})
	assert.ErrorIs(t, err, ErrUnknownProcessor)
}

func TestRemoteSwapperProcessImage(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.png")
	target := filepath.Join(dir, "target.png")
	require.NoError(t, os.WriteFile(source, pngBytes(t, color.White), 0o644))
	require.NoError(t, os.WriteFile(target, pngBytes(t, color.Black), 0o644))

	result := pngBytes(t, color.RGBA{R: 255, A: 255})
	client := &fakeInference{respond: func(req websocketPkg.Request) (*websocketPkg.Response, error) {
		return &websocketPkg.Response{Status: websocketPkg.StatusOK, Image: base64.StdEncoding.EncodeToString(result)}, nil
	}}

	factory := RemoteFactory(FaceSwapper, client, quietLogger())
	swapper, err := factory(entity.DefaultFusionConfig())
	require.NoError(t, err)

	face := &entity.Face{Score: 0.9}
	ctx := WithFaceReference(context.Background(), face)
	require.NoError(t, swapper.ProcessImage(ctx, source, target, target))

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, result, written)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, websocketPkg.OpProcessImage, req.Op)
	assert.Equal(t, FaceSwapper, req.Processor)
	assert.Equal(t, "inswapper_128", req.Model)
	assert.NotEmpty(t, req.Source)
	assert.NotEmpty(t, req.Target)
	assert.Same(t, face, req.ReferenceFace)
}

func TestRemoteEnhancerSkipsSource(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.png")
	require.NoError(t, os.WriteFile(target, pngBytes(t, color.Black), 0o644))

	client := &fakeInference{respond: func(req websocketPkg.Request) (*websocketPkg.Response, error) {
		return &websocketPkg.Response{Status: websocketPkg.StatusOK, Image: base64.StdEncoding.EncodeToString(pngBytes(t, color.White))}, nil
	}}

	enhancer, err := RemoteFactory(FaceEnhancer, client, quietLogger())(entity.DefaultFusionConfig())
	require.NoError(t, err)

	require.NoError(t, enhancer.ProcessImage(context.Background(), "/does/not/matter.png", target, target))
	assert.Empty(t, client.requests[0].Source)
	assert.Equal(t, "gfpgan_1.4", client.requests[0].Model)
}

func TestRemoteProcessImageKeepsOutputMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.png")
	require.NoError(t, os.WriteFile(target, pngBytes(t, color.Black), 0o640))
	require.NoError(t, os.Chmod(target, 0o640))

	white := pngBytes(t, color.White)
	client := &fakeInference{respond: func(req websocketPkg.Request) (*websocketPkg.Response, error) {
		return &websocketPkg.Response{Status: websocketPkg.StatusOK, Image: base64.StdEncoding.EncodeToString(white)}, nil
	}}

	enhancer, err := RemoteFactory(FaceEnhancer, client, quietLogger())(entity.DefaultFusionConfig())
	require.NoError(t, err)
	require.NoError(t, enhancer.ProcessImage(context.Background(), "", target, target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, white, got)
}

func TestWriteFileAtomicNewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, writeFileAtomic(path, []byte("data")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRemoteProcessImageRemoteFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.png")
	original := pngBytes(t, color.Black)
	require.NoError(t, os.WriteFile(target, original, 0o644))

	remoteErr := &websocketPkg.RemoteError{Op: websocketPkg.OpProcessImage, Message: "no face"}
	client := &fakeInference{respond: func(req websocketPkg.Request) (*websocketPkg.Response, error) {
		return nil, remoteErr
	}}

	enhancer, err := RemoteFactory(FaceEnhancer, client, quietLogger())(entity.DefaultFusionConfig())
	require.NoError(t, err)

	err = enhancer.ProcessImage(context.Background(), "", target, target)
	assert.True(t, errors.Is(err, remoteErr))

	unchanged, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, unchanged)
}

func TestPreProcessValidatesSourceAndOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.png")
	require.NoError(t, os.WriteFile(source, pngBytes(t, color.White), 0o644))

	swapper, err := RemoteFactory(FaceSwapper, &fakeInference{}, quietLogger())(entity.DefaultFusionConfig())
	require.NoError(t, err)

	cfg := entity.DefaultFusionConfig()

	ok := cfg.WithPaths(source, source, filepath.Join(dir, "out.png"))
	assert.NoError(t, swapper.PreProcess(context.Background(), ok, ModeOutput))

	noSource := cfg.WithPaths(filepath.Join(dir, "missing.png"), source, filepath.Join(dir, "out.png"))
	assert.ErrorIs(t, swapper.PreProcess(context.Background(), noSource, ModeOutput), ErrSourceNotImage)

	badOutput := cfg.WithPaths(source, source, filepath.Join(dir, "nope", "out.png"))
	assert.ErrorIs(t, swapper.PreProcess(context.Background(), badOutput, ModeOutput), ErrInvalidOutput)
}

func TestRemoteAnalyserGetOneFace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.png")
	require.NoError(t, os.WriteFile(target, pngBytes(t, color.Black), 0o644))

	want := &entity.Face{Score: 0.8, BoundingBox: entity.BoundingBox{X2: 2, Y2: 2}}
	client := &fakeInference{respond: func(req websocketPkg.Request) (*websocketPkg.Response, error) {
		return &websocketPkg.Response{Status: websocketPkg.StatusOK, Face: want}, nil
	}}

	analyser := NewRemoteAnalyser(entity.DefaultFusionConfig(), client)
	face, err := analyser.GetOneFace(context.Background(), target, 1)
	require.NoError(t, err)
	assert.Equal(t, want, face)
	assert.Equal(t, 1, client.requests[0].Position)
	assert.Equal(t, "retinaface", client.requests[0].Model)
}
