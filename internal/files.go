package internal

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UploadedFile describes one file part of a multipart request.
type UploadedFile struct {
	Header *multipart.FileHeader `json:"-"`
	Err    error                 `json:"-"`

	Name string `json:"name"`
	Ext  string `json:"ext"`

	// MIME is detected from the file content. The client supplied
	// Content-Type of the part is never used.
	MIME string `json:"mime"`

	Size int64 `json:"size"`

	// Uploaded is true when the part was received and could be opened.
	Uploaded bool `json:"uploaded"`
}

// Open opens the uploaded content for reading.
func (f *UploadedFile) Open() (multipart.File, error) {
	if f.Header == nil {
		return nil, ErrNoFile
	}
	return f.Header.Open()
}

// FileField is one form field of uploaded files. Multiple is set when the
// client used array syntax ("name[]") or sent several parts under one name.
type FileField struct {
	Files    []*UploadedFile `json:"files"`
	Multiple bool            `json:"multiple"`
}

// First returns the first file of the field.
func (f *FileField) First() (*UploadedFile, bool) {
	if f == nil || len(f.Files) == 0 {
		return nil, false
	}
	return f.Files[0], true
}

// collectFiles converts parsed multipart file headers into file fields.
func collectFiles(form *multipart.Form) map[string]*FileField {
	files := make(map[string]*FileField)
	if form == nil {
		return files
	}
	for field, headers := range form.File {
		name, isArray := strings.CutSuffix(field, "[]")
		ff, ok := files[name]
		if !ok {
			ff = &FileField{}
			files[name] = ff
		}
		for _, fh := range headers {
			ff.Files = append(ff.Files, describeFile(fh))
		}
		ff.Multiple = ff.Multiple || isArray || len(ff.Files) > 1
	}
	return files
}

func describeFile(fh *multipart.FileHeader) *UploadedFile {
	f := &UploadedFile{
		Header: fh,
		Name:   fh.Filename,
		Size:   fh.Size,
		Ext:    strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), ".")),
	}

	src, err := fh.Open()
	if err != nil {
		f.Err = err
		return f
	}
	defer func() { _ = src.Close() }()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		f.Err = err
		return f
	}

	f.MIME, _, _ = strings.Cut(mt.String(), ";")
	f.Uploaded = true
	return f
}
