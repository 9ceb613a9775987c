package domain

import "time"

type Report struct {
	ExecID     string    `json:"exec_id"`
	Date       string    `json:"date"`
	Upserted   int       `json:"upserted"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}
