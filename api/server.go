package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/RituKumari998/Coordi/game/rules"
	"github.com/RituKumari998/Coordi/game/service"
	"github.com/RituKumari998/Coordi/transport/websocket"
)

// Server represents the REST API server.
type Server struct {
	coordinator service.Coordinator
	hub         *websocket.Hub
	router      *mux.Router
}

// NewServer creates a new API server.
func NewServer(coordinator service.Coordinator, hub *websocket.Hub) *Server {
	s := &Server{
		coordinator: coordinator,
		hub:         hub,
		router:      mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Room management
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleDeleteRoom).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/state", s.handleGetRoomState).Methods("GET")

	// Supported games
	api.HandleFunc("/games", s.handleListGames).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Liveness
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondCoordinatorError maps coordinator sentinels to HTTP statuses.
func respondCoordinatorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoomExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidRoom),
		errors.Is(err, service.ErrUnknownGame),
		errors.Is(err, service.ErrInvalidWager):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoomFull):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Room handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID string `json:"room_id,omitempty"`
		Game   string `json:"game,omitempty"`
	}
	// An empty body is a valid request for a default room; a body that does
	// not parse is not.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	room, err := s.coordinator.CreateRoom(r.Context(), req.RoomID, req.Game)
	if err != nil {
		respondCoordinatorError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.coordinator.Rooms(r.Context())

	// Most recently active first
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].LastActiveAt.After(rooms[j].LastActiveAt)
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	room, err := s.coordinator.Room(r.Context(), roomID)
	if err != nil {
		respondCoordinatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	if err := s.coordinator.DeleteRoom(r.Context(), roomID); err != nil {
		respondCoordinatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "room_id": roomID})
}

func (s *Server) handleGetRoomState(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	room, err := s.coordinator.Room(r.Context(), roomID)
	if err != nil {
		respondCoordinatorError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"room_id":  room.RoomID,
		"game":     room.Game,
		"status":   room.Status,
		"position": room.Position,
		"turn":     room.Turn,
		"result":   room.Result,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	names := rules.Names()
	sort.Strings(names)
	respondJSON(w, http.StatusOK, map[string]interface{}{"games": names})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
