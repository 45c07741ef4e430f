//go:build ocr

package ocr

import (
	"context"
	"testing"
)

func TestGosseractRecognize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Languages = []string{"eng"}
	engine, err := NewGosseract(cfg)
	if err != nil {
		t.Fatalf("NewGosseract() failed: %v", err)
	}
	if engine.Name() != EngineGosseract {
		t.Errorf("Name() = %q", engine.Name())
	}

	// We don't check the text since the image is just a rectangle
	tokens, err := engine.Recognize(context.Background(), testImage())
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	for _, tok := range tokens {
		if tok.Level != 5 {
			t.Errorf("token level = %d, want word level", tok.Level)
		}
	}
}

func TestGosseractCancelled(t *testing.T) {
	engine, err := NewGosseract(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGosseract() failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Recognize(ctx, testImage()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
