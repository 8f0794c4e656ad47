package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator/mapsurface"
)

var errQuit = errors.New("quit")

const help = `commands:
  list                          show the filtered facilities
  search <text>                 filter by name or category
  region <name>|all             filter by region
  regions                       list regions
  select <n|id>                 show a facility and its reviews
  review <1-5> <name> [comment] rate the selected facility
  locate <lat> <lng>            set your position
  directions                    route to the selected facility
  close                         close the detail view
  map                           show the map state
  quit`

type shell struct {
	session *locator.Session
	out     *console
	widget  func() *mapsurface.Headless
}

func (s *shell) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	s.out.Flush()
	for scanner.Scan() {
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		fmt.Fprint(s.out, "> ")
		s.out.Flush()
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, help)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		s.printList()
	case "search":
		s.session.SetQuery(rest)
	case "region":
		r, ok := entities.ParseRegion(rest)
		if !ok {
			return fmt.Errorf("unknown region %q", rest)
		}
		return s.session.SetRegion(r)
	case "regions":
		fmt.Fprintln(s.out, entities.AllRegions)
		for _, r := range entities.Regions() {
			fmt.Fprintln(s.out, r)
		}
	case "select":
		id, err := s.resolve(rest)
		if err != nil {
			return err
		}
		if err := s.session.Select(ctx, id); err != nil {
			return err
		}
		s.printDetail()
	case "review":
		ratingText, tail, _ := strings.Cut(rest, " ")
		rating, err := strconv.Atoi(ratingText)
		if err != nil {
			return fmt.Errorf("usage: review <1-5> <name> [comment]")
		}
		name, comment, _ := strings.Cut(strings.TrimSpace(tail), " ")
		if err := s.session.SubmitReview(ctx, name, rating, comment); err != nil {
			return err
		}
		s.printDetail()
	case "locate":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return fmt.Errorf("usage: locate <lat> <lng>")
		}
		lat, err1 := strconv.ParseFloat(fields[0], 64)
		lng, err2 := strconv.ParseFloat(fields[1], 64)
		position := entities.Coordinates{Lat: lat, Lng: lng}
		if err1 != nil || err2 != nil || !position.Valid() {
			return fmt.Errorf("invalid coordinates")
		}
		s.session.SetUserLocation(position)
	case "directions":
		if err := s.session.RequestDirections(ctx); err != nil {
			if errors.Is(err, locator.ErrDirectionsUnavailable) {
				return fmt.Errorf("%s", s.session.View().DirectionsLabel)
			}
			return err
		}
		v := s.session.View()
		fmt.Fprintf(s.out, "route: %s, %s\n", v.Distance, v.Duration)
	case "close":
		s.session.CloseDetail()
	case "map":
		s.printMap()
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// resolve accepts a 1-based list position or a facility id.
func (s *shell) resolve(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("usage: select <n|id>")
	}
	facilities := s.session.View().Facilities
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(facilities) {
		return facilities[n-1].ID, nil
	}
	return arg, nil
}

func (s *shell) printList() {
	v := s.session.View()
	fmt.Fprintf(s.out, "%d of %d facilities (query %q, region %s)\n", len(v.Facilities), v.Total, v.Query, v.Region)
	for i, f := range v.Facilities {
		fmt.Fprintf(s.out, "%3d. %s [%s, %s]\n", i+1, f.Name, f.Category, f.Region)
	}
}

func (s *shell) printDetail() {
	v := s.session.View()
	if v.Selected == nil {
		fmt.Fprintln(s.out, "no facility selected")
		return
	}
	f := v.Selected
	fmt.Fprintf(s.out, "%s\n  %s, %s\n", f.Name, f.Category, f.Region)
	if f.Address != "" {
		fmt.Fprintf(s.out, "  %s\n", f.Address)
	}
	if f.PhoneNumber != "" {
		fmt.Fprintf(s.out, "  %s\n", f.PhoneNumber)
	}
	if len(f.Services) > 0 {
		fmt.Fprintf(s.out, "  services: %s\n", strings.Join(f.Services, ", "))
	}
	fmt.Fprintf(s.out, "  %s %.1f (%d reviews)\n", v.SummaryStars, v.Summary.Average, v.Summary.Count)
	for _, r := range v.Reviews {
		fmt.Fprintf(s.out, "    %s %s", entities.Stars(r.Rating), r.UserName)
		if r.Comment != "" {
			fmt.Fprintf(s.out, ": %s", r.Comment)
		}
		fmt.Fprintln(s.out)
	}
	fmt.Fprintf(s.out, "  [%s]\n", v.DirectionsLabel)
}

func (s *shell) printMap() {
	v := s.session.View()
	if v.MapError != "" {
		fmt.Fprintf(s.out, "map: %s (%s)\n", v.MapState, v.MapError)
		return
	}
	w := s.widget()
	if w == nil {
		fmt.Fprintf(s.out, "map: %s\n", v.MapState)
		return
	}
	camera := w.Camera()
	fmt.Fprintf(s.out, "map: %s, %d markers, camera %.4f,%.4f z%.0f, layers %v\n",
		v.MapState, len(w.Markers()), camera.Center.Lat, camera.Center.Lng, camera.Zoom, w.Layers())
}
