package geometry

import "math"

// Jacobi eigen-solver bounds. The covariance matrix is 3x3 symmetric, so a
// handful of sweeps converges; the cap guards pathological input.
const (
	jacobiMaxSweeps = 32
	jacobiTolerance = 1e-10
)

// Plane is a best-fit plane through a point set. BasisX and BasisY form an
// orthonormal in-plane basis and BasisX x BasisY points along Normal
// (right-handed).
type Plane struct {
	Centroid Vec3
	Normal   Vec3
	BasisX   Vec3
	BasisY   Vec3
}

// CanonicalPlane is the fallback basis used for degenerate input: the XY
// plane with canonical axes, centered on the given centroid.
func CanonicalPlane(centroid Vec3) Plane {
	return Plane{
		Centroid: centroid,
		Normal:   Vec3{0, 0, 1},
		BasisX:   Vec3{1, 0, 0},
		BasisY:   Vec3{0, 1, 0},
	}
}

// FitPlane computes the best-fit plane of points via eigendecomposition of
// the 3x3 covariance matrix. The eigenvectors with the two largest
// eigenvalues span the plane; the smallest is the normal. Fewer than three
// points, or a covariance too degenerate to yield unit eigenvectors, falls
// back to the canonical basis.
func FitPlane(points []Vec3) Plane {
	centroid := Centroid(points)
	if len(points) < 3 {
		return CanonicalPlane(centroid)
	}

	var cov [3][3]float64
	for _, p := range points {
		d := p.Sub(centroid)
		c := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += c[i] * c[j]
			}
		}
	}
	inv := 1 / float64(len(points))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] *= inv
		}
	}

	vals, vecs := jacobiEigen(cov)

	// Order eigenpairs by descending eigenvalue.
	order := [3]int{0, 1, 2}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if vals[order[j]] > vals[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	bx, okx := column(vecs, order[0]).Normalize()
	by, oky := column(vecs, order[1]).Normalize()
	n, okn := column(vecs, order[2]).Normalize()
	if !okx || !oky || !okn {
		return CanonicalPlane(centroid)
	}

	// Re-orient so BasisX x BasisY aligns with Normal.
	if bx.Cross(by).Dot(n) < 0 {
		by = by.Scale(-1)
	}

	return Plane{Centroid: centroid, Normal: n, BasisX: bx, BasisY: by}
}

// ProjectToPlane maps each point's offset from the plane centroid onto the
// in-plane basis.
func ProjectToPlane(points []Vec3, plane Plane) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		d := p.Sub(plane.Centroid)
		out[i] = Vec2{X: d.Dot(plane.BasisX), Y: d.Dot(plane.BasisY)}
	}
	return out
}

// Centroid returns the mean of points, or the zero vector for empty input.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

func column(m [3][3]float64, j int) Vec3 {
	return Vec3{X: m[0][j], Y: m[1][j], Z: m[2][j]}
}

// jacobiEigen diagonalizes a symmetric 3x3 matrix with cyclic Jacobi
// rotations. Returns the eigenvalues and a matrix whose columns are the
// corresponding eigenvectors. Iteration stops once the largest off-diagonal
// element drops below jacobiTolerance or after jacobiMaxSweeps sweeps.
func jacobiEigen(a [3][3]float64) ([3]float64, [3][3]float64) {
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := math.Max(math.Abs(a[0][1]), math.Max(math.Abs(a[0][2]), math.Abs(a[1][2])))
		if off < jacobiTolerance {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if math.Abs(a[p][q]) < jacobiTolerance {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, aqq, apq := a[p][p], a[q][q], a[p][q]
				a[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
				a[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
				a[p][q] = 0
				a[q][p] = 0
				for r := 0; r < 3; r++ {
					if r == p || r == q {
						continue
					}
					arp, arq := a[r][p], a[r][q]
					a[r][p] = c*arp - s*arq
					a[p][r] = a[r][p]
					a[r][q] = s*arp + c*arq
					a[q][r] = a[r][q]
				}
				for r := 0; r < 3; r++ {
					vrp, vrq := v[r][p], v[r][q]
					v[r][p] = c*vrp - s*vrq
					v[r][q] = s*vrp + c*vrq
				}
			}
		}
	}

	return [3]float64{a[0][0], a[1][1], a[2][2]}, v
}
