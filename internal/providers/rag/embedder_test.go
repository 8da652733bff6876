package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/gtmsuite/internal/core"
)

// mockDualEncoder is a test double for the DualEncoder interface
type mockDualEncoder struct {
	encodeQueryFunc    func(ctx context.Context, text string) ([]float32, error)
	encodePassagesFunc func(ctx context.Context, texts []string) ([][]float32, error)
	shutdownFunc       func() error

	queryCalls   []string
	passageCalls [][]string
}

func (m *mockDualEncoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	m.queryCalls = append(m.queryCalls, text)
	if m.encodeQueryFunc != nil {
		return m.encodeQueryFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockDualEncoder) EncodePassages(ctx context.Context, texts []string) ([][]float32, error) {
	m.passageCalls = append(m.passageCalls, texts)
	if m.encodePassagesFunc != nil {
		return m.encodePassagesFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.4, 0.5, 0.6}
	}
	return out, nil
}

func (m *mockDualEncoder) Shutdown() error {
	if m.shutdownFunc != nil {
		return m.shutdownFunc()
	}
	return nil
}

var _ core.Embedder = (*Embedder)(nil)

func TestEmbedder_EncodeQuery(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		timeout     time.Duration
		mockSetup   func(*mockDualEncoder)
		want        []float32
		wantErr     bool
		errContains string
	}{
		{
			name:    "successfully encodes query",
			text:    "test query",
			timeout: 5 * time.Second,
			mockSetup: func(m *mockDualEncoder) {
				m.encodeQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
					return []float32{0.1, 0.2, 0.3}, nil
				}
			},
			want:    []float32{0.1, 0.2, 0.3},
			wantErr: false,
		},
		{
			name:    "returns error on model failure",
			text:    "failing query",
			timeout: 5 * time.Second,
			mockSetup: func(m *mockDualEncoder) {
				m.encodeQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("model connection failed")
				}
			},
			want:        nil,
			wantErr:     true,
			errContains: "failed to encode query",
		},
		{
			name:    "respects timeout",
			text:    "slow query",
			timeout: 50 * time.Millisecond,
			mockSetup: func(m *mockDualEncoder) {
				m.encodeQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
					select {
					case <-time.After(time.Second):
						return []float32{0.1}, nil
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				}
			},
			want:        nil,
			wantErr:     true,
			errContains: "context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDualEncoder{}
			if tt.mockSetup != nil {
				tt.mockSetup(mock)
			}

			embedder := NewEmbedder(mock).WithTimeout(tt.timeout)

			got, err := embedder.EncodeQuery(context.Background(), tt.text)

			if tt.wantErr {
				if err == nil {
					t.Errorf("EncodeQuery() error = nil, wantErr true")
					return
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("EncodeQuery() error = %v, should contain %v", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("EncodeQuery() unexpected error = %v", err)
				return
			}

			if len(got) != len(tt.want) {
				t.Errorf("EncodeQuery() got %v, want %v", got, tt.want)
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("EncodeQuery() got %v, want %v", got, tt.want)
					return
				}
			}

			if len(mock.queryCalls) != 1 || mock.queryCalls[0] != tt.text {
				t.Errorf("EncodeQuery() did not call model with correct text, got calls: %v", mock.queryCalls)
			}
		})
	}
}

func TestEmbedder_EncodePassages(t *testing.T) {
	tests := []struct {
		name        string
		texts       int
		batchSize   int
		mockSetup   func(*mockDualEncoder)
		wantBatches int
		wantErr     bool
		errContains string
	}{
		{
			name:        "no texts makes no calls",
			texts:       0,
			batchSize:   4,
			wantBatches: 0,
		},
		{
			name:        "single batch",
			texts:       3,
			batchSize:   4,
			wantBatches: 1,
		},
		{
			name:        "splits into batches",
			texts:       10,
			batchSize:   4,
			wantBatches: 3,
		},
		{
			name:      "reports first chunk of failed batch",
			texts:     10,
			batchSize: 4,
			mockSetup: func(m *mockDualEncoder) {
				m.encodePassagesFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
					if len(m.passageCalls) == 2 {
						return nil, errors.New("embedding failed")
					}
					return make([][]float32, len(texts)), nil
				}
			},
			wantErr:     true,
			errContains: "failed to embed chunk 4",
		},
		{
			name:      "short batch is an error",
			texts:     2,
			batchSize: 4,
			mockSetup: func(m *mockDualEncoder) {
				m.encodePassagesFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
					return [][]float32{{1}}, nil
				}
			},
			wantErr:     true,
			errContains: "expected 2 embeddings, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDualEncoder{}
			if tt.mockSetup != nil {
				tt.mockSetup(mock)
			}

			embedder := NewEmbedder(mock)
			embedder.batchSize = tt.batchSize

			texts := make([]string, tt.texts)
			for i := range texts {
				texts[i] = fmt.Sprintf("passage %d", i)
			}

			got, err := embedder.EncodePassages(context.Background(), texts)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("EncodePassages() error = nil, wantErr true")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("EncodePassages() error = %v, should contain %v", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("EncodePassages() unexpected error = %v", err)
			}
			if len(got) != tt.texts {
				t.Errorf("EncodePassages() got %d embeddings, want %d", len(got), tt.texts)
			}
			if len(mock.passageCalls) != tt.wantBatches {
				t.Errorf("EncodePassages() called model %d times, want %d", len(mock.passageCalls), tt.wantBatches)
			}
		})
	}
}

func TestEmbedder_EncodeQuery_CallsModelWithCorrectContext(t *testing.T) {
	mock := &mockDualEncoder{
		encodeQueryFunc: func(ctx context.Context, text string) ([]float32, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Error("Expected context to have deadline")
			}

			expectedDeadline := time.Now().Add(100 * time.Millisecond)
			if deadline.After(expectedDeadline.Add(10*time.Millisecond)) || deadline.Before(expectedDeadline.Add(-10*time.Millisecond)) {
				t.Errorf("Deadline %v not within expected range of %v", deadline, expectedDeadline)
			}

			return []float32{0.1}, nil
		},
	}

	embedder := NewEmbedder(mock).WithTimeout(100 * time.Millisecond)

	if _, err := embedder.EncodeQuery(context.Background(), "test"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestEmbedder_Shutdown(t *testing.T) {
	shutdownCalled := false
	mock := &mockDualEncoder{
		shutdownFunc: func() error {
			shutdownCalled = true
			return nil
		},
	}

	if err := NewEmbedder(mock).Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !shutdownCalled {
		t.Error("Shutdown() did not call model's Shutdown")
	}
}

type stubBatchEmbedder struct {
	inputs [][]string
}

func (s *stubBatchEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.inputs = append(s.inputs, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestRemoteModel_Prefixes(t *testing.T) {
	tests := []struct {
		model       string
		wantQuery   string
		wantPassage string
	}{
		{model: "text-embedding-3-small", wantQuery: "pricing", wantPassage: "Starter plan"},
		{model: "intfloat/multilingual-e5-base", wantQuery: "query: pricing", wantPassage: "passage: Starter plan"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			stub := &stubBatchEmbedder{}
			m := NewRemoteModel(stub, tt.model)

			if _, err := m.EncodeQuery(context.Background(), "pricing"); err != nil {
				t.Fatalf("EncodeQuery() error = %v", err)
			}
			if _, err := m.EncodePassages(context.Background(), []string{"Starter plan"}); err != nil {
				t.Fatalf("EncodePassages() error = %v", err)
			}

			if stub.inputs[0][0] != tt.wantQuery {
				t.Errorf("query input = %q, want %q", stub.inputs[0][0], tt.wantQuery)
			}
			if stub.inputs[1][0] != tt.wantPassage {
				t.Errorf("passage input = %q, want %q", stub.inputs[1][0], tt.wantPassage)
			}
		})
	}
}
