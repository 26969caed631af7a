package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// Ground is the resting floor both systems return to.
const Ground = 0

// DefaultFloorCount matches the demo building: ground plus floors 1-14.
const DefaultFloorCount = 15

var (
	ErrFloorOutOfRange   = errors.New("floor out of range")
	ErrFloorNotRequested = errors.New("please select the floor first before assigning OKU person")
	ErrInvalidDirection  = errors.New("direction must be either 'up' or 'down'")
)

// Direction is the travel direction of the hall calls
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection parses "up" or "down", ignoring case and surrounding whitespace
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidDirection)
}

// Arrow returns the hall call arrow for the direction
func (d Direction) Arrow() string {
	if d == DirectionUp {
		return "↑"
	}
	return "↓"
}

// Selection holds the requested hall-call floors, the direction and the
// optional priority floor. The priority floor is always one of the requested floors.
type Selection struct {
	floors    []bool
	direction Direction
	priority  int
	hasPrio   bool
}

// NewSelection creates an empty selection for a building with floorCount floors
func NewSelection(floorCount int, direction Direction) *Selection {
	if floorCount < 1 {
		floorCount = DefaultFloorCount
	}
	if direction != DirectionUp {
		direction = DirectionDown
	}
	return &Selection{
		floors:    make([]bool, floorCount),
		direction: direction,
	}
}

// FloorCount returns the number of floors in the building
func (s *Selection) FloorCount() int {
	return len(s.floors)
}

// TopFloor returns the highest floor index
func (s *Selection) TopFloor() int {
	return len(s.floors) - 1
}

// Direction returns the current travel direction
func (s *Selection) Direction() Direction {
	return s.direction
}

// SetDirection changes the travel direction
func (s *Selection) SetDirection(d Direction) {
	s.direction = d
}

func (s *Selection) checkFloor(floor int) error {
	if floor < 0 || floor >= len(s.floors) {
		return fmt.Errorf("floor %d (building has floors 0-%d): %w", floor, s.TopFloor(), ErrFloorOutOfRange)
	}
	return nil
}

// Add requests a floor. Adding an already requested floor is a no-op.
func (s *Selection) Add(floor int) error {
	if err := s.checkFloor(floor); err != nil {
		return err
	}
	s.floors[floor] = true
	return nil
}

// Remove clears a requested floor, and the priority assignment with it
// when floor is the priority floor.
func (s *Selection) Remove(floor int) error {
	if err := s.checkFloor(floor); err != nil {
		return err
	}
	s.floors[floor] = false
	if s.hasPrio && s.priority == floor {
		s.ClearPriority()
	}
	if s.Empty() {
		s.ClearPriority()
	}
	return nil
}

// Toggle adds floor when it is not requested and removes it otherwise.
// It reports whether the floor is requested afterwards.
func (s *Selection) Toggle(floor int) (bool, error) {
	if err := s.checkFloor(floor); err != nil {
		return false, err
	}
	if s.floors[floor] {
		return false, s.Remove(floor)
	}
	return true, s.Add(floor)
}

// IsRequested reports whether floor has a pending hall call
func (s *Selection) IsRequested(floor int) bool {
	return floor >= 0 && floor < len(s.floors) && s.floors[floor]
}

// Requested returns the requested floors in ascending order
func (s *Selection) Requested() []int {
	floors := []int{}
	for i, set := range s.floors {
		if set {
			floors = append(floors, i)
		}
	}
	return floors
}

// Empty reports whether no floor is requested
func (s *Selection) Empty() bool {
	for _, set := range s.floors {
		if set {
			return false
		}
	}
	return true
}

// Priority returns the priority floor, if one is assigned
func (s *Selection) Priority() (int, bool) {
	return s.priority, s.hasPrio
}

// SetPriority assigns the priority floor. The floor must already be requested.
func (s *Selection) SetPriority(floor int) error {
	if err := s.checkFloor(floor); err != nil {
		return err
	}
	if !s.floors[floor] {
		return fmt.Errorf("floor %d: %w", floor, ErrFloorNotRequested)
	}
	s.priority = floor
	s.hasPrio = true
	return nil
}

// ClearPriority removes the priority assignment. Clearing twice is a no-op.
func (s *Selection) ClearPriority() {
	s.priority = 0
	s.hasPrio = false
}

// TogglePriority assigns floor as the priority floor, or clears the
// assignment when floor already is the priority floor. It reports whether
// floor is the priority floor afterwards.
func (s *Selection) TogglePriority(floor int) (bool, error) {
	if err := s.checkFloor(floor); err != nil {
		return false, err
	}
	if s.hasPrio && s.priority == floor {
		s.ClearPriority()
		return false, nil
	}
	if err := s.SetPriority(floor); err != nil {
		return false, err
	}
	return true, nil
}

// Clone returns an independent copy of the selection
func (s *Selection) Clone() *Selection {
	floors := make([]bool, len(s.floors))
	copy(floors, s.floors)
	return &Selection{
		floors:    floors,
		direction: s.direction,
		priority:  s.priority,
		hasPrio:   s.hasPrio,
	}
}

// Describe renders the selected calls line shown above the buildings
func (s *Selection) Describe() string {
	requested := s.Requested()
	if len(requested) == 0 {
		return "Selected Calls: None"
	}
	parts := make([]string, len(requested))
	for i, f := range requested {
		parts[i] = fmt.Sprintf("%d", f)
	}
	text := fmt.Sprintf("Selected Calls (%s): %s", strings.ToUpper(string(s.direction)), strings.Join(parts, ", "))
	if p, ok := s.Priority(); ok {
		text += fmt.Sprintf(" | OKU: Floor %d", p)
	}
	return text
}

// FloorLabel renders ground as "G" and other floors as their number
func FloorLabel(floor int) string {
	if floor == Ground {
		return "G"
	}
	return fmt.Sprintf("%d", floor)
}
