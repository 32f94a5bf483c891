package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cgeom/paraheat/halfedge"
)

// ReadMesh reads a triangle mesh file, dispatching on the file extension.
// Supported formats are OFF and Wavefront OBJ.
func ReadMesh(filename string) (*halfedge.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read input mesh from the file %s: %w", filename, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".off":
		return ReadOFF(file)
	case ".obj":
		return ReadOBJ(file)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q (expect .off or .obj)", filepath.Ext(filename))
	}
}

// nextFields returns the whitespace-separated fields of the next line that is
// neither blank nor a comment.
func nextFields(scanner *bufio.Scanner, comment string) ([]string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, comment) {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// ReadOFF parses the Object File Format: an OFF header, a counts line, the
// vertex coordinates and the polygon records.
func ReadOFF(r io.Reader) (*halfedge.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fields, err := nextFields(scanner, "#")
	if err != nil {
		return nil, fmt.Errorf("OFF: missing header: %w", err)
	}
	if fields[0] != "OFF" {
		return nil, fmt.Errorf("OFF: bad header %q", fields[0])
	}
	if len(fields) == 1 {
		if fields, err = nextFields(scanner, "#"); err != nil {
			return nil, fmt.Errorf("OFF: missing counts line: %w", err)
		}
	} else {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("OFF: short counts line")
	}
	nVerts, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("OFF: bad vertex count %q", fields[0])
	}
	nFaces, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("OFF: bad face count %q", fields[1])
	}

	pos := make([]r3.Vec, nVerts)
	for i := 0; i < nVerts; i++ {
		if fields, err = nextFields(scanner, "#"); err != nil {
			return nil, fmt.Errorf("OFF: vertex %d: %w", i, err)
		}
		if pos[i], err = parseVec3(fields); err != nil {
			return nil, fmt.Errorf("OFF: vertex %d: %w", i, err)
		}
	}

	faces := make([][3]int, nFaces)
	for i := 0; i < nFaces; i++ {
		if fields, err = nextFields(scanner, "#"); err != nil {
			return nil, fmt.Errorf("OFF: face %d: %w", i, err)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n != 3 || len(fields) < 4 {
			return nil, fmt.Errorf("OFF: face %d is not a triangle", i)
		}
		for k := 0; k < 3; k++ {
			if faces[i][k], err = strconv.Atoi(fields[k+1]); err != nil {
				return nil, fmt.Errorf("OFF: face %d: bad index %q", i, fields[k+1])
			}
		}
	}
	return halfedge.NewMesh(pos, faces)
}

// ReadOBJ parses the vertex and face records of a Wavefront OBJ file. Face
// indices are 1-based and may carry texture/normal suffixes (v/vt/vn).
func ReadOBJ(r io.Reader) (*halfedge.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		pos   []r3.Vec
		faces [][3]int
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("OBJ: vertex %d: %w", len(pos), err)
			}
			pos = append(pos, p)
		case "f":
			if len(fields) != 4 {
				return nil, fmt.Errorf("OBJ: face %d is not a triangle", len(faces))
			}
			var face [3]int
			for k := 0; k < 3; k++ {
				idxStr := strings.SplitN(fields[k+1], "/", 2)[0]
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return nil, fmt.Errorf("OBJ: face %d: bad index %q", len(faces), fields[k+1])
				}
				if idx < 0 { // negative indices count back from the end
					idx = len(pos) + idx + 1
				}
				face[k] = idx - 1
			}
			faces = append(faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("OBJ: %w", err)
	}
	return halfedge.NewMesh(pos, faces)
}

func parseVec3(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for k := 0; k < 3; k++ {
		v, err := strconv.ParseFloat(fields[k], 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("bad coordinate %q", fields[k])
		}
		c[k] = v
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
