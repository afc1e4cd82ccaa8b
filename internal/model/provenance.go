package model

import "time"

// ProvenanceRecord describes how a derived file was produced.
type ProvenanceRecord struct {
	ID             string    `json:"id"`
	Target         string    `json:"target"`
	Agents         []string  `json:"agents"`
	Activity       string    `json:"activity"`
	Description    string    `json:"description"`
	PrimarySources []string  `json:"primary_sources,omitempty"`
	Sources        []string  `json:"sources,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
}
