package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/guidance"
	"github.com/lintang-b-s/roadsim/pkg/server/rest/service"
	"github.com/lintang-b-s/roadsim/pkg/snap"
)

type RoadNetworkService interface {
	Map(ctx context.Context) clustering.ClusterView
	NearbyVertices(ctx context.Context, x, y float64, n int) ([]datastructure.Vertex, []datastructure.Edge, error)
	VerticesInRadius(ctx context.Context, x, y, r float64) ([]datastructure.Vertex, []datastructure.Edge, error)
	QuadTree(ctx context.Context) []datastructure.QuadTreeBoundary
	ZoomClusters(ctx context.Context, zoom float64) (clustering.ClusterView, error)
	Paths(ctx context.Context, from, to int32, pathTypes []string) ([]service.PathResult, error)
	NearestRoads(ctx context.Context, x, y float64, k int) ([]snap.SnappedRoad, error)
	TrafficSnapshot(ctx context.Context) []traffic.EdgeState
	SubscribeTraffic(ctx context.Context, buffer int) (<-chan []traffic.EdgeState, func())
	StartSimulation(ctx context.Context) (service.SimulationStatus, error)
	StopSimulation(ctx context.Context) service.SimulationStatus
	SimulationStatus(ctx context.Context) service.SimulationStatus
}

type RoadNetworkHandler struct {
	svc     RoadNetworkService
	metrics *Metrics
}

func RoadNetworkRouter(r *chi.Mux, svc RoadNetworkService, m *Metrics) {
	handler := &RoadNetworkHandler{svc: svc, metrics: m}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Get("/map", handler.Map)
			r.Get("/nearby_nodes", handler.NearbyNodes)
			r.Get("/nodes_in_radius", handler.NodesInRadius)
			r.Get("/quadtree", handler.QuadTree)
			r.Get("/zoom_clusters", handler.ZoomClusters)
			r.Post("/paths", handler.Paths)
			r.Post("/roads/nearest", handler.NearestRoads)

			r.Route("/traffic", func(r chi.Router) {
				r.Get("/", handler.Traffic)
				r.Post("/simulation/start", handler.StartSimulation)
				r.Post("/simulation/stop", handler.StopSimulation)
			})
		})
		r.Get("/ws/traffic", handler.TrafficSocket)
	})
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("query parameter %s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be a number", name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", name)
	}
	return v, nil
}

// Map
//
//	@Summary		full road network, every vertex and edge
//	@Tags			map
//	@Produce		application/json
//	@Router			/map [get]
//	@Success		200	{object}	clustering.ClusterView
func (h *RoadNetworkHandler) Map(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.Map(r.Context()))
}

// VerticesResponse model info
//
//	@Description	vertices ordered by distance to the query point, with the edges joining two of them
type VerticesResponse struct {
	Nodes []datastructure.Vertex `json:"nodes"`
	Edges []datastructure.Edge   `json:"edges"`
}

const defaultNearbyCount = 100

// NearbyNodes
//
//	@Summary		n vertices nearest to (x, y)
//	@Tags			map
//	@Param			x	query	number	true	"x coordinate"
//	@Param			y	query	number	true	"y coordinate"
//	@Param			count	query	int		false	"number of vertices, default 100"
//	@Param			n		query	int		false	"alias of count"
//	@Produce		application/json
//	@Router			/nearby_nodes [get]
//	@Success		200	{object}	VerticesResponse
//	@Failure		400	{object}	ErrResponse
func (h *RoadNetworkHandler) NearbyNodes(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	// n is the older name of count.
	n, err := queryInt(r, "n", defaultNearbyCount)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	n, err = queryInt(r, "count", n)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	nodes, edges, err := h.svc.NearbyVertices(r.Context(), x, y, n)
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &VerticesResponse{Nodes: nodes, Edges: edges})
}

// NodesInRadius
//
//	@Summary		vertices within r of (x, y)
//	@Tags			map
//	@Param			x	query	number	true	"x coordinate"
//	@Param			y	query	number	true	"y coordinate"
//	@Param			r	query	number	true	"radius"
//	@Produce		application/json
//	@Router			/nodes_in_radius [get]
//	@Success		200	{object}	VerticesResponse
//	@Failure		400	{object}	ErrResponse
func (h *RoadNetworkHandler) NodesInRadius(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	radius, err := queryFloat(r, "r")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	nodes, edges, err := h.svc.VerticesInRadius(r.Context(), x, y, radius)
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &VerticesResponse{Nodes: nodes, Edges: edges})
}

// QuadTreeResponse model info
//
//	@Description	every quadtree node boundary
type QuadTreeResponse struct {
	Boundaries []datastructure.QuadTreeBoundary `json:"boundaries"`
}

// QuadTree
//
//	@Summary		quadtree node boundaries of the spatial index
//	@Tags			map
//	@Produce		application/json
//	@Router			/quadtree [get]
//	@Success		200	{object}	QuadTreeResponse
func (h *RoadNetworkHandler) QuadTree(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &QuadTreeResponse{Boundaries: h.svc.QuadTree(r.Context())})
}

// ZoomClusters
//
//	@Summary		clustered map view for a zoom level
//	@Description	zoom_level 0.1 returns the original map, other values use the nearest precomputed level
//	@Tags			map
//	@Param			zoom_level	query	number	true	"zoom level"
//	@Produce		application/json
//	@Router			/zoom_clusters [get]
//	@Success		200	{object}	clustering.ClusterView
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *RoadNetworkHandler) ZoomClusters(w http.ResponseWriter, r *http.Request) {
	zoom, err := queryFloat(r, "zoom_level")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	view, err := h.svc.ZoomClusters(r.Context(), zoom)
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, view)
}

// PathsRequest model info
//
//	@Description	request body for path search between two vertices
type PathsRequest struct {
	StartNode *int32   `json:"start_node" validate:"required,gte=0"`
	EndNode   *int32   `json:"end_node" validate:"required,gte=0"`
	PathTypes []string `json:"path_types" validate:"required,min=1,dive,oneof=shortest_by_length fastest"`
}

func (s *PathsRequest) Bind(r *http.Request) error {
	if s.StartNode == nil || s.EndNode == nil {
		return errors.New("invalid request")
	}
	return nil
}

// PathResponse model info
//
//	@Description	one path, cost is omitted when no path exists
type PathResponse struct {
	Type      string   `json:"type"`
	Found     bool     `json:"found"`
	VertexIDs []int32  `json:"vertex_ids"`
	EdgeIDs   []int32  `json:"edge_ids"`
	Cost      *float64 `json:"cost,omitempty"`
	Polyline  string   `json:"polyline"`

	Instructions []guidance.DrivingInstruction `json:"instructions,omitempty"`
}

// PathsResponse model info
//
//	@Description	response body for path search
type PathsResponse struct {
	StartNode int32          `json:"start_node"`
	EndNode   int32          `json:"end_node"`
	Paths     []PathResponse `json:"paths"`
}

func RenderPathsResponse(from, to int32, paths []service.PathResult) *PathsResponse {
	resp := make([]PathResponse, 0, len(paths))
	for _, p := range paths {
		pr := PathResponse{
			Type:      p.Type,
			Found:     p.Found,
			VertexIDs: p.VertexIDs,
			EdgeIDs:   p.EdgeIDs,
			Polyline:  p.Polyline,

			Instructions: p.Instructions,
		}
		if p.Found {
			cost := p.Cost
			pr.Cost = &cost
		}
		resp = append(resp, pr)
	}
	return &PathsResponse{StartNode: from, EndNode: to, Paths: resp}
}

// Paths
//
//	@Summary		shortest and fastest paths between two vertices
//	@Description	path_types accepts shortest_by_length and fastest. fastest uses the live traffic state
//	@Tags			routing
//	@Param			body	body	PathsRequest	true	"request body path search"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/paths [post]
//	@Success		200	{object}	PathsResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RoadNetworkHandler) Paths(w http.ResponseWriter, r *http.Request) {
	data := &PathsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateFieldErrors(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	paths, err := h.svc.Paths(r.Context(), *data.StartNode, *data.EndNode, data.PathTypes)
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderPathsResponse(*data.StartNode, *data.EndNode, paths))
}

// NearestRoadsRequest model info
//
//	@Description	request body for road snapping
type NearestRoadsRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
	K int      `json:"k" validate:"required,gt=0,lte=100"`
}

func (s *NearestRoadsRequest) Bind(r *http.Request) error {
	if s.X == nil || s.Y == nil {
		return errors.New("invalid request")
	}
	return nil
}

// NearestRoadsResponse model info
//
//	@Description	road segments ordered by distance to the query point
type NearestRoadsResponse struct {
	Roads []snap.SnappedRoad `json:"roads"`
}

// NearestRoads
//
//	@Summary		k road segments nearest to a point
//	@Tags			routing
//	@Param			body	body	NearestRoadsRequest	true	"request body road snapping"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/roads/nearest [post]
//	@Success		200	{object}	NearestRoadsResponse
//	@Failure		400	{object}	ErrResponse
func (h *RoadNetworkHandler) NearestRoads(w http.ResponseWriter, r *http.Request) {
	data := &NearestRoadsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateFieldErrors(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	roads, err := h.svc.NearestRoads(r.Context(), *data.X, *data.Y, data.K)
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &NearestRoadsResponse{Roads: roads})
}

// TrafficResponse model info
//
//	@Description	traffic state of every road
type TrafficResponse struct {
	Running bool                `json:"running"`
	Edges   []traffic.EdgeState `json:"edges"`
}

// Traffic
//
//	@Summary		current traffic state of every road
//	@Tags			traffic
//	@Produce		application/json
//	@Router			/traffic [get]
//	@Success		200	{object}	TrafficResponse
func (h *RoadNetworkHandler) Traffic(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TrafficResponse{
		Running: h.svc.SimulationStatus(r.Context()).Running,
		Edges:   h.svc.TrafficSnapshot(r.Context()),
	})
}

// StartSimulation
//
//	@Summary		start the traffic simulation
//	@Tags			traffic
//	@Produce		application/json
//	@Router			/traffic/simulation/start [post]
//	@Success		200	{object}	service.SimulationStatus
//	@Failure		409	{object}	ErrResponse
func (h *RoadNetworkHandler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.StartSimulation(r.Context())
	if err != nil {
		render.Render(w, r, RenderServiceError(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, status)
}

// StopSimulation
//
//	@Summary		stop the traffic simulation
//	@Tags			traffic
//	@Produce		application/json
//	@Router			/traffic/simulation/stop [post]
//	@Success		200	{object}	service.SimulationStatus
func (h *RoadNetworkHandler) StopSimulation(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.StopSimulation(r.Context()))
}
