package lint

import (
	"context"
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/scanner"
)

func TestMain(m *testing.M) {
	Progress = nil
	os.Exit(m.Run())
}

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(filePath string) ([]types.Issue, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) RunSource(source []byte) ([]types.Issue, error) {
	args := m.Called(source)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func (m *mockLintEngine) IgnorePath(path string) {
	m.Called(path)
}

func setupMockEngine(expectedIssues []types.Issue, filePath string) *mockLintEngine {
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", filePath).Return(expectedIssues, nil)
	return mockEngine
}

func setupSourceMockEngine(expectedIssues []types.Issue, content []byte) *mockLintEngine {
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", content).Return(expectedIssues, nil)
	return mockEngine
}

func issueIn(filename, rule string) types.Issue {
	return types.Issue{
		Rule:     rule,
		Code:     "Indent",
		Filename: filename,
		Start:    token.Position{Filename: filename, Line: 1, Column: 1},
		Message:  "Test issue",
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expectedIssues := []types.Issue{issueIn("test.tokens", "test-rule")}
	mockEngine := setupMockEngine(expectedIssues, "test.tokens")

	issues, err := ProcessFile(mockEngine, "test.tokens")

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	expectedIssues := []types.Issue{issueIn("", "test-rule")}
	mockEngine := setupSourceMockEngine(expectedIssues, []byte("tokens: []"))

	issues, err := ProcessSource(mockEngine, []byte("tokens: []"))

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "b.tokens", "a.tokens.json", "notes.txt")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{issueIn(paths[0], "rule1")}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueIn(paths[1], "rule2")}, nil)

	issues, err := ProcessPath(ctx, logger, mockEngine, tempDir, scanner.DefaultExtensions, ProcessFile)

	require.NoError(t, err)
	assert.Equal(t, []types.Issue{issueIn(paths[1], "rule2"), issueIn(paths[0], "rule1")}, issues,
		"issues must follow path order")
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", paths[2])
}

func TestProcessPath_SingleFile(t *testing.T) {
	t.Parallel()
	paths := createTempFiles(t, t.TempDir(), "dump.txt")

	mockEngine := setupMockEngine([]types.Issue{issueIn(paths[0], "rule1")}, paths[0])

	issues, err := ProcessPath(context.Background(), nil, mockEngine, paths[0], scanner.DefaultExtensions, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath_FileError(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "bad.tokens", "good.tokens")

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue(nil), errors.New("invalid token dump"))
	mockEngine.On("Run", paths[1]).Return([]types.Issue{issueIn(paths[1], "rule1")}, nil)

	issues, err := ProcessPath(context.Background(), zap.NewNop(), mockEngine, tempDir, scanner.DefaultExtensions, ProcessFile)
	require.NoError(t, err)
	assert.Equal(t, []types.Issue{issueIn(paths[1], "rule1")}, issues)
}

func TestProcessPath_Missing(t *testing.T) {
	t.Parallel()
	_, err := ProcessPath(context.Background(), nil, new(mockLintEngine), filepath.Join(t.TempDir(), "missing"), nil, ProcessFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	createTempFiles(t, tempDir, "a.tokens", "b.tokens", "c.tokens")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockEngine := new(mockLintEngine)
	_, err := ProcessPath(ctx, nil, mockEngine, tempDir, scanner.DefaultExtensions, ProcessFile)

	assert.ErrorIs(t, err, context.Canceled)
	mockEngine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "test1.tokens", "test2.tokens")

	expectedIssues := []types.Issue{issueIn(paths[0], "rule1"), issueIn(paths[1], "rule2")}

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{expectedIssues[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{expectedIssues[1]}, nil)

	issues, err := ProcessFiles(ctx, logger, mockEngine, paths, scanner.DefaultExtensions, ProcessFile)

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop()
	ctx := context.Background()

	expectedIssues := []types.Issue{issueIn("", "rule1"), issueIn("", "rule2")}

	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", []byte("tokens: [1]")).Return([]types.Issue{expectedIssues[0]}, nil)
	mockEngine.On("RunSource", []byte("tokens: [2]")).Return([]types.Issue{expectedIssues[1]}, nil)

	issues, err := ProcessSources(ctx, logger, mockEngine, [][]byte{[]byte("tokens: [1]"), []byte("tokens: [2]")}, ProcessSource)

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		require.NoError(t, os.WriteFile(filePath, []byte("tokens: []\n"), 0o644))
		paths = append(paths, filePath)
	}
	return paths
}
