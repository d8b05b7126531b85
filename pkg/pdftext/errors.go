package pdftext

import "errors"

var (
	ErrNotFound     = errors.New("pdf file not found")
	ErrNotPDF       = errors.New("file is not a pdf")
	ErrCorrupt      = errors.New("pdf could not be parsed")
	ErrNoPages      = errors.New("pdf has no pages")
	ErrNoText       = errors.New("no text could be extracted from pdf; it may be scanned or image-based and require OCR")
	ErrTooManyPages = errors.New("pdf exceeds page limit")
)
