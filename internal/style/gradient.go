package style

import "github.com/pspoerri/tileforge/internal/catalog"

// gradient computes (dz/dx, dz/dy) from a reflected 3x3 neighbourhood
// ([row][col], row 0 = north) using either the Horn or Zevenbergen-Thorne
// finite-difference kernel (§4.8's kernel selector).
func gradient(v [3][3]float64, pxSizeX, pxSizeY float64, kernel catalog.KernelShading) (dzdx, dzdy float64) {
	switch kernel {
	case catalog.KernelZevenbergenThorne:
		dzdx = (v[1][2] - v[1][0]) / (2 * pxSizeX)
		dzdy = (v[2][1] - v[0][1]) / (2 * pxSizeY)
	default: // Horn
		dzdx = ((v[0][2] + 2*v[1][2] + v[2][2]) - (v[0][0] + 2*v[1][0] + v[2][0])) / (8 * pxSizeX)
		dzdy = ((v[2][0] + 2*v[2][1] + v[2][2]) - (v[0][0] + 2*v[0][1] + v[0][2])) / (8 * pxSizeY)
	}
	return
}
