package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/AhmadWajid/kfmruns/internal/services"
)

// AreaController serves the pickup areas the forms offer, with their map
// locations decoded from stored WKB into GeoJSON.
type AreaController struct {
	coord *services.Coordinator
}

func NewAreaController(coord *services.Coordinator) *AreaController {
	return &AreaController{coord: coord}
}

// areaResponse mirrors models.PickupArea with Location as a GeoJSON string.
type areaResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location string `json:"location,omitempty"`
}

// ListAreas returns all pickup areas, alphabetically.
func (ac *AreaController) ListAreas(c *gin.Context) {
	areas, err := ac.coord.PickupAreas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]areaResponse, 0, len(areas))
	for _, area := range areas {
		loc, err := convertWKBToGeoJSON(area.Location)
		if err != nil {
			logrus.WithError(err).WithField("area", area.Name).Warn("could not decode pickup area location")
			loc = ""
		}
		out = append(out, areaResponse{
			ID:       area.ID,
			Name:     area.Name,
			Address:  area.Address,
			Location: loc,
		})
	}
	c.JSON(http.StatusOK, gin.H{"areas": out})
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
