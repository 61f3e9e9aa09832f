// tour.go - loads a Lua keyframe script into a plain Go slice. Grounded
// on gopher-lua's table-walking idiom (the pack's go.mod lists the
// library but the teacher never exercises it); this is its first real
// use, registering nothing Go-side beyond reading a plain data table.

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Keyframe is one stop of a scripted fly-through: the camera holds this
// position for HoldMs milliseconds before the next keyframe takes over.
type Keyframe struct {
	CenterX, CenterY float64
	Radius           float64
	AngleDeg         float64
	HoldMs           float64
}

// LoadTour runs a Lua script and reads its global `keyframes` table, a
// sequence of tables each shaped like
// {cx=-0.5, cy=0, radius=1.5, angle=0, hold_ms=1000}.
func LoadTour(path string) ([]Keyframe, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("zoomtour: running %s: %w", path, err)
	}

	top, ok := L.GetGlobal("keyframes").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("zoomtour: %s does not define a keyframes table", path)
	}

	var frames []Keyframe
	var walkErr error
	top.ForEach(func(_, v lua.LValue) {
		if walkErr != nil {
			return
		}
		row, ok := v.(*lua.LTable)
		if !ok {
			walkErr = fmt.Errorf("zoomtour: keyframes entry is not a table")
			return
		}
		frames = append(frames, Keyframe{
			CenterX:  numberField(row, "cx", 0),
			CenterY:  numberField(row, "cy", 0),
			Radius:   numberField(row, "radius", 1),
			AngleDeg: numberField(row, "angle", 0),
			HoldMs:   numberField(row, "hold_ms", 1000),
		})
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("zoomtour: %s produced no keyframes", path)
	}
	return frames, nil
}

func numberField(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}
