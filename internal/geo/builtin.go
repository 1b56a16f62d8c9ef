package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// identityProjection backs WGS84 and CRS:84, whose native coordinates already
// are lon/lat.
type identityProjection struct{}

func (identityProjection) ToWGS84(x, y float64) (float64, float64)   { return x, y }
func (identityProjection) FromWGS84(lon, lat float64) (float64, float64) { return lon, lat }

// webMercatorProjection wraps orb/project's spherical Mercator transform for
// EPSG:3857, replacing the reference tool's hand-written mercator.go math
// with the pack's geometry library.
type webMercatorProjection struct{}

func (webMercatorProjection) ToWGS84(x, y float64) (float64, float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p[0], p[1]
}

func (webMercatorProjection) FromWGS84(lon, lat float64) (float64, float64) {
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p[0], p[1]
}

// swissLV95Projection implements EPSG:2056 (CH1903+/LV95) via swisstopo's
// published polynomial approximation, carried over from the reference tool's
// coord.SwissLV95.
type swissLV95Projection struct{}

func (swissLV95Projection) ToWGS84(easting, northing float64) (lon, lat float64) {
	y := (easting - 2_600_000) / 1_000_000
	x := (northing - 1_200_000) / 1_000_000

	lonSec := 2.6779094 + 4.728982*y + 0.791484*y*x + 0.1306*y*x*x - 0.0436*y*y*y
	latSec := 16.9023892 + 3.238272*x - 0.270978*y*y - 0.002528*x*x - 0.0447*y*y*x - 0.0140*x*x*x

	lon = lonSec * 100.0 / 36.0
	lat = latSec * 100.0 / 36.0
	return
}

func (swissLV95Projection) FromWGS84(lon, lat float64) (easting, northing float64) {
	phiSec := lat * 3600
	lambdaSec := lon * 3600

	phiAux := (phiSec - 169028.66) / 10000
	lambdaAux := (lambdaSec - 26782.5) / 10000

	easting = 2_600_072.37 +
		211_455.93*lambdaAux -
		10_938.51*lambdaAux*phiAux -
		0.36*lambdaAux*phiAux*phiAux -
		44.54*lambdaAux*lambdaAux*lambdaAux

	northing = 1_200_147.07 +
		308_807.95*phiAux +
		3_745.25*lambdaAux*lambdaAux +
		76.63*phiAux*phiAux -
		194.56*lambdaAux*lambdaAux*phiAux +
		119.79*phiAux*phiAux*phiAux
	return
}

const webMercatorExtent = 20037508.342789244

func registerBuiltins() {
	wgs84 := &CRS{
		Code:          "EPSG:4326",
		Proj4:         "+proj=longlat +datum=WGS84 +no_defs",
		LonLatOrder:   true,
		MetersPerUnit: math.NaN(), // degrees, not linear
		Validity:      Bound{-180, -90, 180, 90},
		proj:          identityProjection{},
	}
	crs84 := &CRS{
		Code:          "CRS:84",
		Proj4:         "+proj=longlat +datum=WGS84 +no_defs",
		LonLatOrder:   false, // CRS:84 is always lon,lat on the wire regardless of WMS version
		MetersPerUnit: math.NaN(),
		Validity:      Bound{-180, -90, 180, 90},
		proj:          identityProjection{},
	}
	webMercator := &CRS{
		Code:          "EPSG:3857",
		Proj4:         "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
		LonLatOrder:   false,
		MetersPerUnit: 1,
		Validity:      Bound{-webMercatorExtent, -webMercatorExtent, webMercatorExtent, webMercatorExtent},
		proj:          webMercatorProjection{},
	}
	swissLV95 := &CRS{
		Code:          "EPSG:2056",
		Proj4:         "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346 +units=m +no_defs",
		LonLatOrder:   false,
		MetersPerUnit: 1,
		Validity:      Bound{2485000, 1075000, 2834000, 1296000},
		proj:          swissLV95Projection{},
	}

	Register(wgs84)
	Register(crs84)
	Register(webMercator)
	Register(swissLV95)

	SetEquivalenceTable([][]string{
		{"EPSG:4326", "CRS:84"},
	})
}
