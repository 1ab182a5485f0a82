package web

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string  `json:"status"`
	Bot       string  `json:"bot,omitempty"`
	Uptime    float64 `json:"uptime"` // seconds
	Timestamp string  `json:"timestamp"`
	Codes     int     `json:"codes"`
}

type codeResponse struct {
	Code      string    `json:"code"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	MaxUses   int       `json:"max_uses"`
	UsedCount int       `json:"used_count"`
	Remaining int       `json:"remaining"`
	Expired   bool      `json:"expired"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type statusResponse struct {
	CodeCount int     `json:"active_code_count"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("encoding response failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "online"
	if !s.ready() {
		status = "offline"
	}
	n := 0
	if st, err := s.codeUC.Status(r.Context()); err == nil {
		n = st.CodeCount
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Bot:       s.botName,
		Uptime:    time.Since(s.startedAt).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Codes:     n,
	})
}

func (s *Server) handleCodes(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.codeUC.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing codes failed")
		http.Error(w, "Failed to list codes", http.StatusInternalServerError)
		return
	}

	out := make([]codeResponse, 0, len(snapshot))
	for _, cu := range snapshot {
		out = append(out, codeResponse{
			Code:      cu.Code.Code,
			RoleID:    cu.Code.RoleID,
			RoleName:  cu.Code.RoleName,
			MaxUses:   cu.Code.MaxUses,
			UsedCount: cu.UsedCount,
			Remaining: cu.Remaining(),
			Expired:   cu.Expired(),
			CreatedBy: cu.Code.CreatedBy,
			CreatedAt: cu.Code.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.codeUC.Status(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("status failed")
		http.Error(w, "Failed to read status", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		CodeCount: st.CodeCount,
		Uptime:    time.Since(s.startedAt).Seconds(),
		Version:   s.version,
	})
}
