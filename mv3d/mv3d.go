/*
Package mv3d reads growth trajectories exported by the Microvisu3D
digitizer.

An export is a tab-separated text file. The first line is a title, followed
by three header lines with counts

	# Number of lines 1
	# Number of points 120
	# Number of inter. 0

and three lines of column headers. Every following line with exactly five
fields is a data row "no x y z d", where (x,y,z) is a point on the growth
trajectory and d the tube thickness at that point. Other lines are ignored.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package mv3d

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/growtube/estimate"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'growtube.mv3d'
func tracer() tracing.Trace {
	return tracing.Select("growtube.mv3d")
}

// Header holds the counts from the header lines of an export. They are
// informational only and not checked against the data rows.
type Header struct {
	Lines         int
	Points        int
	Intersections int
}

// Record is a data row.
type Record struct {
	No        int
	Pos       r3.Vec
	Thickness float64
}

// File is the content of a Microvisu3D export.
type File struct {
	Header  Header
	Records []Record
}

const (
	headerStart = 1 // line index of the first count line
	dataStart   = 7 // line index of the first data row
	rowFields   = 5
)

var (
	reLines  = regexp.MustCompile(`^#\s+Number\s+of\s+lines\s+(\d+)$`)
	rePoints = regexp.MustCompile(`^#\s+Number\s+of\s+points\s+(\d+)$`)
	reInter  = regexp.MustCompile(`^#\s+Number\s+of\s+inter.\s+(\d+)$`)
)

// Read parses a Microvisu3D export.
func Read(r io.Reader) (*File, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	f := &File{}
	counts := []struct {
		re   *regexp.Regexp
		dst  *int
		name string
	}{
		{reLines, &f.Header.Lines, "lines"},
		{rePoints, &f.Header.Points, "points"},
		{reInter, &f.Header.Intersections, "intersections"},
	}
	lineno := 0
	for ; scanner.Scan(); lineno++ {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
		switch {
		case lineno >= headerStart && lineno < headerStart+len(counts):
			c := counts[lineno-headerStart]
			m := c.re.FindStringSubmatch(fields[0])
			if m == nil {
				return nil, fmt.Errorf("%w: line %d: expected number of %s, have %q",
					growtube.ErrMalformedInput, lineno+1, c.name, fields[0])
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", growtube.ErrMalformedInput, lineno+1, err)
			}
			*c.dst = n
		case lineno >= dataStart && len(fields) == rowFields:
			rec, err := parseRecord(fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", growtube.ErrMalformedInput, lineno+1, err)
			}
			f.Records = append(f.Records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if lineno < headerStart+len(counts) {
		return nil, fmt.Errorf("%w: truncated header (%d lines)", growtube.ErrMalformedInput, lineno)
	}
	tracer().Infof("mv3d: %d lines, %d points, %d intersections",
		f.Header.Lines, f.Header.Points, f.Header.Intersections)
	tracer().Debugf("mv3d: %d data rows", len(f.Records))
	return f, nil
}

func parseRecord(fields []string) (Record, error) {
	var rec Record
	var err error
	if rec.No, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return rec, err
	}
	var v [4]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64); err != nil {
			return rec, err
		}
	}
	rec.Pos = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	rec.Thickness = v[3]
	return rec, nil
}

// ReadFile reads the export at path.
func ReadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return Read(in)
}

// Samples returns the data rows as growth trajectory samples.
func (f *File) Samples() []growtube.Sample {
	samples := make([]growtube.Sample, len(f.Records))
	for i, rec := range f.Records {
		samples[i] = growtube.Sample{Pos: rec.Pos, Thickness: rec.Thickness}
	}
	return samples
}

// ReadTrajectory reads the export at path as a growth trajectory with chord
// length arc length parameters. With adjustDirection set, the trajectory is
// oriented so that the thickness grows along it.
func ReadTrajectory(path string, adjustDirection bool) (*estimate.Trajectory, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return estimate.DeriveTrajectory(f.Samples(), adjustDirection)
}
