package domain

import (
	"github.com/google/uuid"
)

type City string

const (
	CityBengaluru City = "BENGALURU"
	CityPune      City = "PUNE"
)

func (c City) Valid() bool {
	return c == CityBengaluru || c == CityPune
}

type Movie struct {
	Name string
}

// Show is one screening of a movie. Date is formatted as 2006-01-02 and Time
// as 15:04.
type Show struct {
	ID             uuid.UUID
	Movie          Movie
	Date           string
	Time           string
	ScreenID       int
	SeatPriceCents int64
	Ledger         *SeatLedger
}

// NewShow builds a show on screen with a fresh ledger of the screen's seats.
func NewShow(movie Movie, date, showTime string, screen *Screen, seatPriceCents int64) *Show {
	return &Show{
		ID:             uuid.New(),
		Movie:          movie,
		Date:           date,
		Time:           showTime,
		ScreenID:       screen.ID,
		SeatPriceCents: seatPriceCents,
		Ledger:         NewSeatLedger(screen.Seats),
	}
}

func (s *Show) Price(seats int) int64 {
	return s.SeatPriceCents * int64(seats)
}

type Screen struct {
	ID     int
	Seats  []Seat
	byDate map[string][]*Show
}

func NewScreen(id int, seats []Seat) *Screen {
	return &Screen{ID: id, Seats: seats, byDate: make(map[string][]*Show)}
}

func (s *Screen) AddShow(show *Show) {
	if s.byDate == nil {
		s.byDate = make(map[string][]*Show)
	}
	s.byDate[show.Date] = append(s.byDate[show.Date], show)
}

func (s *Screen) ShowsOn(date string) []*Show {
	return s.byDate[date]
}

func (s *Screen) Shows() []*Show {
	var shows []*Show
	for _, byDate := range s.byDate {
		shows = append(shows, byDate...)
	}
	return shows
}

type Theatre struct {
	ID      uuid.UUID
	Name    string
	City    City
	Screens []*Screen
}

// ShowsFor returns the shows of movieName on date across every screen. An
// empty movieName matches every movie.
func (t *Theatre) ShowsFor(movieName, date string) []*Show {
	var shows []*Show
	for _, screen := range t.Screens {
		for _, show := range screen.ShowsOn(date) {
			if movieName == "" || show.Movie.Name == movieName {
				shows = append(shows, show)
			}
		}
	}
	return shows
}
