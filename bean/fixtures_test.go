package bean_test

import (
	"errors"
	"reflect"

	"configbean/bean"
)

type Base struct {
	X int
	Y int
}

type Child struct {
	Z int
	Base
}

type Mid struct {
	Base
	M string
}

type Leaf struct {
	L bool
	Mid
}

type Server struct {
	port  int    `comment:"Listen port"`
	Host  string `comment:"Bind address\nEmpty means all interfaces" bean:",repeat"`
	Debug bool   `bean:"-"`
}

func (s *Server) Port() int      { return s.port }
func (s *Server) SetPort(p int)  { s.port = p }
func (s *Server) Label() string  { return s.Host + ":" }
func (s *Server) Timeout() int   { return 0 }
func (s *Server) SetTimeout(int) {}

type Location struct {
	City string
}

type Profile struct {
	Name      string
	Nicknames []string
	Home      Location
}

type Account struct {
	Owner string
	Alias *string
}

type Renamed struct {
	Limit int `bean:"max-conns"`
}

type Duplicate struct {
	A int `bean:"same"`
	B int `bean:"same"`
}

type Blank struct {
	A int `bean:" "`
}

type Empty struct {
	hidden int
}

type Point struct {
	x int
	y int `comment:"Vertical offset"`
}

func NewPoint(x, y int) Point { return Point{x: x, y: y} }

func (p Point) X() int { return p.x }
func (p Point) Y() int { return p.y }

type Endpoint struct {
	Host string
	Port int
}

var errZeroPort = errors.New("port must not be zero")

func NewEndpoint(host string, port int) (*Endpoint, error) {
	if port == 0 {
		return nil, errZeroPort
	}

	return &Endpoint{Host: host, Port: port}, nil
}

type fallbackRecorder struct {
	paths []string
	props []string
}

func (r *fallbackRecorder) RecordFallback(path string, prop bean.Property) {
	r.paths = append(r.paths, path)
	r.props = append(r.props, prop.Name)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func names(def bean.Definition) []string {
	var out []string
	for _, p := range def.Properties() {
		out = append(out, p.Name)
	}

	return out
}
