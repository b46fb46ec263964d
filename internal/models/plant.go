package models

import "time"

// PlantStatusUnknown is the status of a plant that was never analysed,
// or whose last analysis could not produce a result.
const PlantStatusUnknown = "Unknown"

// Plant is a monitored plant bound to one sensor node.
type Plant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species,omitempty"`
	SensorNode  string    `json:"sensorNode"`
	Status      string    `json:"status"` // healthy | <disease label> | Unknown
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}
