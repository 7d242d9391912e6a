package model

import "time"

type StationStatus string

const (
	StatusActive   StationStatus = "Active"
	StatusInactive StationStatus = "Inactive"
)

// Valid reports whether s is one of the known statuses.
func (s StationStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type ConnectorType string

const (
	ConnectorType1   ConnectorType = "Type 1"
	ConnectorType2   ConnectorType = "Type 2"
	ConnectorCCS     ConnectorType = "CCS"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorTesla   ConnectorType = "Tesla"
)

// Valid reports whether c is one of the known connector types.
func (c ConnectorType) Valid() bool {
	switch c {
	case ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO, ConnectorTesla:
		return true
	}
	return false
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Station represents a charging station in the database. OwnerID is set at
// creation and never written again.
type Station struct {
	ID            string
	Name          string
	Location      Location
	Status        StationStatus
	PowerOutput   float64
	ConnectorType ConnectorType
	OwnerID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StationFilter narrows a listing. Empty fields match every station.
type StationFilter struct {
	Status        StationStatus
	ConnectorType ConnectorType
}

// LocationInput is the request form of Location; nil fields were not sent.
type LocationInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// StationRequest is the body of create and update requests. On create every
// field is required; on update only the non-nil fields are applied.
type StationRequest struct {
	Name          *string        `json:"name"`
	Location      *LocationInput `json:"location"`
	Status        *string        `json:"status"`
	PowerOutput   *float64       `json:"powerOutput"`
	ConnectorType *string        `json:"connectorType"`
}

// StationResponse is a station as seen by a particular caller.
type StationResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Location      Location      `json:"location"`
	Status        StationStatus `json:"status"`
	PowerOutput   float64       `json:"powerOutput"`
	ConnectorType ConnectorType `json:"connectorType"`
	OwnerID       string        `json:"ownerId"`
	IsOwner       bool          `json:"isOwner"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}
