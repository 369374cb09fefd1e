package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSlot identifies which side of the comparison an upload fills.
type DocumentSlot string

const (
	SlotJobDescription DocumentSlot = "job_description"
	SlotResume         DocumentSlot = "resume"
)

func (s DocumentSlot) Valid() bool {
	return s == SlotJobDescription || s == SlotResume
}

// Document is one uploaded file. It lives only for the current session:
// selecting a new file for the same slot replaces it, and nothing is
// persisted across restarts.
type Document struct {
	ID               uuid.UUID    `json:"id"`
	Slot             DocumentSlot `json:"slot"`
	Filename         string       `json:"filename"`
	OriginalFileName string       `json:"original_filename"`
	FilePath         string       `json:"file_path"`
	UploadedAt       time.Time    `json:"uploaded_at"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Slot         string `json:"slot"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}
