package store

import "github.com/google/uuid"

// RoomStatus summarizes a room's occupancy. TotalBeds is the declared
// capacity; OccupiedBeds and AvailableBeds are counted from live bed rows,
// which stay authoritative when the declared capacity text is stale.
type RoomStatus struct {
	RoomID          uuid.UUID `json:"room_id"`
	RoomNumber      string    `json:"room_number"`
	TotalBeds       int       `json:"total_beds"`
	OccupiedBeds    int       `json:"occupied_beds"`
	AvailableBeds   int       `json:"available_beds"`
	IsFullyOccupied bool      `json:"is_fully_occupied"`
	IsAvailable     bool      `json:"is_available"`
}

// BedFilter narrows an available-bed listing to a building, floor, or room.
// Nil fields are ignored.
type BedFilter struct {
	BuildingID *uuid.UUID
	FloorID    *uuid.UUID
	RoomID     *uuid.UUID
}
