// Package ocr recognizes positioned text tokens in page images.
//
// Two engines implement [Engine]:
//
//   - "tesseract" runs the tesseract command line tool and parses its TSV
//     output. It needs only the binary and its language data at runtime.
//
//   - "gosseract" links libtesseract through cgo. It is only available when
//     built with the "ocr" tag:
//
//     go build -tags ocr
//
// Both need Tesseract and the configured traineddata files installed. On
// macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-spa
//
// Use [New] to select an engine by name.
package ocr
