package mapper_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"configbean/raw"
)

type Location struct {
	City string
	Zip  string
}

type Person struct {
	Name      string
	Nicknames []string
	Home      Location
}

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (Color) Values() []Color { return []Color{Red, Green, Blue} }

func (c Color) String() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	case Blue:
		return "BLUE"
	default:
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
}

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
)

func (Level) Values() []Level { return []Level{LevelDebug, LevelInfo} }

type Limits struct {
	MaxConns int
	Timeout  time.Duration
}

type Entry struct {
	Value int `comment:"Shown once"`
}

type RepeatEntry struct {
	Value int `comment:"Shown every time" bean:",repeat"`
}

type Pair struct {
	First  Entry
	Second Entry
}

type RepeatPair struct {
	First  RepeatEntry
	Second RepeatEntry
}

type Point struct {
	x int
	y int
}

func NewPoint(x, y int) Point { return Point{x: x, y: y} }

func (p Point) X() int { return p.x }
func (p Point) Y() int { return p.y }

type Shape struct {
	Name   string
	Origin *Point
}

type Addr struct {
	Host string
	Port int
}

var errBadAddr = errors.New("bad address")

func parseAddr(s string) (Addr, bool, error) {
	host, port, ok := strings.Cut(s, ":")
	if !ok {
		return Addr{}, false, nil
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return Addr{}, false, fmt.Errorf("%w: %s", errBadAddr, s)
	}

	return Addr{Host: host, Port: n}, true, nil
}

type Service struct {
	Name   string
	Listen Addr
}

type Settings struct {
	Title    string
	Color    Color
	Tags     map[string]struct{}
	Weights  map[string]float64
	Backends []*Location
	Limits   Limits
	Ports    [2]int
	Extra    any
}

// mapReader serves raw values from nested *raw.Map values by dotted path.
type mapReader struct {
	root *raw.Map
}

func (r mapReader) Object(path string) any {
	var cur any = r.root
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(*raw.Map)
		if !ok {
			return nil
		}
		cur, _ = m.Get(part)
	}

	return cur
}

// rawMap builds a *raw.Map from alternating keys and values.
func rawMap(kv ...any) *raw.Map {
	m := raw.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}

	return m
}

type Note struct {
	Value any `comment:"Shown once"`
}

// opaque has no exported fields, so it is not a bean and exports to nothing.
type opaque struct {
	hidden int
}
