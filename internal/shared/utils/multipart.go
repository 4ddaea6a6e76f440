package utils

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var ErrFileTooLarge = errors.New("uploaded file too large")

// ReadFormFile reads an optional multipart file field into memory.
// Returns nil bytes when the field is absent.
func ReadFormFile(c *gin.Context, field string, maxBytes int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	if fileHeader.Size > maxBytes {
		return nil, "", ErrFileTooLarge
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", errors.New("could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, "", errors.New("could not read uploaded file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return data, contentType, nil
}

// ReadFormFiles reads every file uploaded under field.
func ReadFormFiles(c *gin.Context, field string, maxBytes int64) ([][]byte, []string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil
	}

	var files [][]byte
	var types []string
	for _, fileHeader := range form.File[field] {
		if fileHeader.Size > maxBytes {
			return nil, nil, ErrFileTooLarge
		}

		f, err := fileHeader.Open()
		if err != nil {
			return nil, nil, errors.New("could not read uploaded file")
		}

		data, err := io.ReadAll(io.LimitReader(f, maxBytes))
		f.Close()
		if err != nil {
			return nil, nil, errors.New("could not read uploaded file")
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		files = append(files, data)
		types = append(types, contentType)
	}

	return files, types, nil
}
