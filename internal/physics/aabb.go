package physics

import "github.com/go-gl/mathgl/mgl32"

// triangleSlab is the thickness given to flat triangle bounds so planar floors and walls still overlap.
const triangleSlab = 0.02

type aabb struct {
	min, max mgl32.Vec3
}

func (a aabb) center() mgl32.Vec3 {
	return a.min.Add(a.max).Mul(0.5)
}

func (a aabb) half() mgl32.Vec3 {
	return a.max.Sub(a.min).Mul(0.5)
}

func (a aabb) overlaps(b aabb) bool {
	for i := 0; i < 3; i++ {
		if a.max[i] <= b.min[i] || b.max[i] <= a.min[i] {
			return false
		}
	}
	return true
}

func boundsOf(points []mgl32.Vec3) aabb {
	if len(points) == 0 {
		return aabb{}
	}
	box := aabb{min: points[0], max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			box.min[i] = min(box.min[i], p[i])
			box.max[i] = max(box.max[i], p[i])
		}
	}
	return box
}

func triangleBounds(positions []mgl32.Vec3, indices []uint32) []aabb {
	out := make([]aabb, 0, len(indices)/3)
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			continue
		}
		box := boundsOf([]mgl32.Vec3{positions[i0], positions[i1], positions[i2]})
		for i := 0; i < 3; i++ {
			if box.max[i]-box.min[i] < triangleSlab {
				mid := (box.max[i] + box.min[i]) * 0.5
				box.min[i] = mid - triangleSlab*0.5
				box.max[i] = mid + triangleSlab*0.5
			}
		}
		out = append(out, box)
	}
	return out
}

// penetration returns the smallest translation that separates a from b: its length, the axis
// (0=X, 1=Y, 2=Z) and the sign to move a along that axis. If there is no overlap, axis is -1.
func penetration(a, b aabb) (depth float32, axis int, sign float32) {
	axis = -1
	for i := 0; i < 3; i++ {
		up := b.max[i] - a.min[i]
		down := a.max[i] - b.min[i]
		if up <= 0 || down <= 0 {
			return 0, -1, 0
		}
		d, s := up, float32(1)
		if down < up {
			d, s = down, -1
		}
		if axis < 0 || d < depth {
			depth, axis, sign = d, i, s
		}
	}
	return depth, axis, sign
}
