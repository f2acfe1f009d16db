package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/storyteller-ai/audio_gateway/internal/ports"
)

func RegisterRoutes(
	r chi.Router,
	hSpeech *SpeechHandler,
	hVoice *VoiceHandler,
	hAuth *AuthHandler,
	authSvc ports.AuthService,
) {
	// --- auth ---
	r.With(httputil.RecoverMiddleware).
		Post("/auth/login", hAuth.Login)

	// --- protected ---
	r.Route("/", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			AuthMiddleware(authSvc),
		)

		// --- аудио: синтез и расшифровка (тяжёлые, лимитируем по IP) ---
		pr.Group(func(ar chi.Router) {
			ar.Use(httprate.LimitByIP(30, time.Minute))

			ar.Post("/speech/text-to-speech", hSpeech.TextToSpeech)
			ar.Post("/speech/stream", hSpeech.TextToSpeech) // исторический алиас
			ar.Post("/speech/transcribe", hSpeech.Transcribe)
		})

		// --- голоса ---
		pr.Post("/voices/projects/{project_id}", hVoice.Create)
		pr.Get("/voices/project/{project_id}", hVoice.ListByProject)
		pr.Put("/voices/{voice_id}", hVoice.Rename)
		pr.Delete("/voices/{voice_id}", hVoice.Delete)
		pr.Get("/voices/{voice_id}/settings", hVoice.GetSettings)
		pr.Post("/voices/{voice_id}/settings", hVoice.UpdateSettings)
	})
}
