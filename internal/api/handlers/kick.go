package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/dom/kick-danila/internal/service"
	"github.com/go-chi/chi/v5"
)

// KickHandler serves the form endpoints. Every response is a redirect to
// the index page carrying a flash message.
type KickHandler struct {
	kickService       *service.KickService
	flashes           *flash.Store
	defaultHealAmount int
}

func NewKickHandler(kickService *service.KickService, flashes *flash.Store, defaultHealAmount int) *KickHandler {
	return &KickHandler{
		kickService:       kickService,
		flashes:           flashes,
		defaultHealAmount: defaultHealAmount,
	}
}

func (h *KickHandler) Kick(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Error("Invalid form"))
		return
	}

	result, err := h.kickService.ApplyKick(r.Context(), service.KickInput{
		KickerName: r.PostForm.Get("kicker_name"),
		KickTypeID: parseID(r.PostForm.Get("kick_type_id")),
	})
	if err != nil {
		log.Printf("ERROR [kick.Kick]: %v", err)
		h.redirect(w, r, failure("Kick", err))
		return
	}

	kicker := result.Kick.KickerName
	if result.Fatal {
		h.redirect(w, r, flash.Error(fmt.Sprintf("Danila took a fatal kick from %s! 💀", kicker)))
		return
	}
	h.redirect(w, r, flash.Success(fmt.Sprintf("Danila was kicked by %s! 💥", kicker)))
}

func (h *KickHandler) Heal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Error("Invalid form"))
		return
	}

	amount := parseIntDefault(r.PostForm.Get("heal_amount"), h.defaultHealAmount)
	if _, err := h.kickService.ApplyHeal(r.Context(), amount); err != nil {
		log.Printf("ERROR [kick.Heal] amount=%d: %v", amount, err)
		h.redirect(w, r, failure("Heal", err))
		return
	}

	h.redirect(w, r, flash.Success(fmt.Sprintf("Danila healed by %d HP! ❤️", amount)))
}

func (h *KickHandler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.kickService.Reset(r.Context())
	if err != nil {
		log.Printf("ERROR [kick.Reset]: %v", err)
		h.redirect(w, r, failure("Reset", err))
		return
	}

	if result.Created {
		h.redirect(w, r, flash.Success("A new Danila was created! 👶"))
		return
	}
	h.redirect(w, r, flash.Success("Danila is fully restored! 🔄"))
}

func (h *KickHandler) AddKickType(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Error("Invalid form"))
		return
	}

	name := r.PostForm.Get("kick_name")
	damage := parseIntDefault(r.PostForm.Get("damage"), 1)

	if _, err := h.kickService.AddKickType(r.Context(), name, damage); err != nil {
		log.Printf("ERROR [kick.AddKickType] name=%q: %v", name, err)
		h.redirect(w, r, failure("Adding kick type", err))
		return
	}

	h.redirect(w, r, flash.Success("Kick type added"))
}

func (h *KickHandler) DeleteKickType(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id := parseID(idParam)
	if id == nil {
		h.redirect(w, r, flash.Error("Kick type not found"))
		return
	}

	if err := h.kickService.DeleteKickType(r.Context(), *id); err != nil {
		log.Printf("ERROR [kick.DeleteKickType] kickTypeID=%s: %v", idParam, err)
		h.redirect(w, r, failure("Deleting kick type", err))
		return
	}

	h.redirect(w, r, flash.Success("Kick type deleted"))
}

func (h *KickHandler) DeleteKick(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id := parseID(idParam)
	if id == nil {
		h.redirect(w, r, flash.Error("Kick record not found"))
		return
	}

	if err := h.kickService.DeleteKick(r.Context(), *id); err != nil {
		log.Printf("ERROR [kick.DeleteKick] kickID=%s: %v", idParam, err)
		h.redirect(w, r, failure("Deleting kick", err))
		return
	}

	h.redirect(w, r, flash.Success("Kick record deleted"))
}

func (h *KickHandler) redirect(w http.ResponseWriter, r *http.Request, msg flash.Message) {
	if err := h.flashes.Set(w, msg); err != nil {
		log.Printf("ERROR [kick.redirect] failed to set flash: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
