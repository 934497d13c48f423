package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/pirate-chat/internal/metrics"
	"github.com/zhouzirui/pirate-chat/internal/model/persona"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
	chatService "github.com/zhouzirui/pirate-chat/internal/service/chat"
	"github.com/zhouzirui/pirate-chat/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	personaStore persona.Store
	turnLimiter  func(http.Handler) http.Handler
}

// New 创建聊天处理器。limiter 为空时不对消息接口限流。
func New(chatSvc *chatService.Service, personaStore persona.Store, limiter func(http.Handler) http.Handler) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		personaStore: personaStore,
		turnLimiter:  limiter,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)

	r.Group(func(r chi.Router) {
		if h.turnLimiter != nil {
			r.Use(h.turnLimiter)
		}
		r.Post("/session/{sessionID}/messages", h.handleSendMessage)
	})
}

type sessionResponse struct {
	ID          string `json:"id"`
	PersonaID   string `json:"personaId"`
	Label       string `json:"label"`
	OpeningLine string `json:"openingLine,omitempty"`
}

type replyResponse struct {
	SessionID string `json:"sessionId"`
	Label     string `json:"label"`
	Reply     string `json:"reply"`
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}

	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.PersonaID == "" {
		utils.RespondError(w, http.StatusBadRequest, "personaId is required")
		return
	}

	p, ok := h.personaStore.FindByID(payload.PersonaID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "persona not found")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), p.ID, ai.BuildSystemPrompt(&p))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.SessionsCreated.Inc()

	utils.RespondJSON(w, http.StatusCreated, sessionResponse{
		ID:          session.ID,
		PersonaID:   session.PersonaID,
		Label:       p.ReplyLabel(),
		OpeningLine: p.OpeningLine,
	})
}

// handleTranscript 返回会话的完整消息记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleSendMessage 执行一轮对话并返回回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Content string `json:"content"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	reply, err := h.chatSvc.Converse(r.Context(), sessionID, payload.Content)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	label := "Bot"
	if p, ok := h.personaStore.FindByID(session.PersonaID); ok {
		label = p.ReplyLabel()
	}

	utils.RespondJSON(w, http.StatusOK, replyResponse{
		SessionID: sessionID,
		Label:     label,
		Reply:     reply,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var genErr *ai.GenerationError
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &genErr):
		log.Printf("[chat] generation failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "generation failed")
	default:
		log.Printf("[chat] request failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
