package ports

// TranscriptionWord — один спан слова/сегмента в расшифровке.
type TranscriptionWord struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speaker_id"`
}

// TranscriptionSegment — сырой сегмент локального движка.
type TranscriptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult — единый ответ обоих движков.
// Confidence = 1.0 у локального движка — заглушка: движок не отдаёт
// реальную оценку уверенности.
type TranscriptionResult struct {
	LanguageCode        string                 `json:"language_code"`
	LanguageProbability float64                `json:"language_probability"`
	Text                string                 `json:"text"`
	Words               []TranscriptionWord    `json:"words"`
	Segments            []TranscriptionSegment `json:"segments,omitempty"`
	Engine              string                 `json:"engine,omitempty"`
	Model               string                 `json:"model,omitempty"`
	Confidence          float64                `json:"confidence,omitempty"`
}
