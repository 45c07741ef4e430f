package ocr

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text (default here)
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Valid reports whether m is a known mode
func (m PageSegMode) Valid() bool {
	return m >= PSM_OSD_ONLY && m <= PSM_RAW_LINE
}

// EngineMode selects the Tesseract recognition engine
type EngineMode int

// OCR engine modes
const (
	OEM_TESSERACT_ONLY          EngineMode = 0 // Legacy engine only
	OEM_LSTM_ONLY               EngineMode = 1 // Neural net LSTM engine only
	OEM_TESSERACT_LSTM_COMBINED EngineMode = 2 // Legacy + LSTM
	OEM_DEFAULT                 EngineMode = 3 // Whatever is available, LSTM preferred
)

// Valid reports whether m is a known mode
func (m EngineMode) Valid() bool {
	return m >= OEM_TESSERACT_ONLY && m <= OEM_DEFAULT
}
