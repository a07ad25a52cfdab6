package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// GeminiClient клиент для работы с Gemini API (извлечение данных из полисов)
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiClient создает новый клиент Gemini
func NewGeminiClient(apiKey string) *GeminiClient {
	if apiKey == "" {
		log.Printf("⚠️ Gemini: API ключ не установлен, извлечение вернет демо-данные")
	} else {
		// Логируем только первые и последние 4 символа для безопасности
		maskedKey := apiKey
		if len(apiKey) > 8 {
			maskedKey = apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
		}
		log.Printf("✅ Gemini: API ключ установлен (маска: %s)", maskedKey)
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com",
		model:   "gemini-1.5-flash",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExtractedClient кандидатные данные клиента из документа
type ExtractedClient struct {
	Name       string `json:"name"`
	LastName   string `json:"last_name"`
	TaxID      string `json:"tax_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	PersonType string `json:"person_type"`
}

// ExtractedFinancial финансовая разбивка премии из документа
type ExtractedFinancial struct {
	NetPremium   float64 `json:"net_premium"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalPremium float64 `json:"total_premium"`
	Currency     string  `json:"currency"`
}

// ExtractedPolicy кандидатные данные полиса из документа
type ExtractedPolicy struct {
	PolicyNumber     string             `json:"policy_number"`
	Company          string             `json:"company"`
	PolicyType       string             `json:"policy_type"`
	StartDate        string             `json:"start_date"` // YYYY-MM-DD
	EndDate          string             `json:"end_date"`   // YYYY-MM-DD
	PaymentFrequency string             `json:"payment_frequency"`
	Financial        ExtractedFinancial `json:"financial"`
}

// ExtractedData результат извлечения: кандидат Client + Policy
// Confidence 0 = fallback (нет ключа или сбой модели), до 1 = уверенность модели
// Живет только в памяти на время цикла загрузка-проверка-подтверждение
type ExtractedData struct {
	Client     ExtractedClient `json:"client"`
	Policy     ExtractedPolicy `json:"policy"`
	Confidence float64         `json:"confidence"`
	RawText    string          `json:"raw_text"`
}

// Структуры запроса/ответа Gemini REST API (generateContent)
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// extractionPrompt фиксированная инструкция для модели
// Описывает точную целевую JSON-структуру и правила форматирования полей
const extractionPrompt = `Eres un asistente que extrae datos de pólizas de seguros mexicanas.
Analiza el documento adjunto y devuelve EXCLUSIVAMENTE un JSON con esta estructura exacta:

{
  "client": {
    "name": "",
    "last_name": "",
    "tax_id": "",
    "email": "",
    "phone": "",
    "person_type": "fisica"
  },
  "policy": {
    "policy_number": "",
    "company": "",
    "policy_type": "",
    "start_date": "",
    "end_date": "",
    "payment_frequency": "annual",
    "financial": {
      "net_premium": 0,
      "tax_amount": 0,
      "total_premium": 0,
      "currency": "MXN"
    }
  },
  "confidence": 0.0
}

Reglas:
- Fechas en formato YYYY-MM-DD.
- Campos desconocidos: cadena vacía para texto, 0 para números.
- person_type: "fisica" o "moral".
- policy_type: Autos, Vida, GMM, Hogar o Responsabilidad Civil.
- payment_frequency: monthly, quarterly, semiannual, annual o single.
- Las primas son números simples, sin símbolos de moneda ni separadores de miles.
- confidence: tu certeza de 0 a 1.
- No envuelvas el JSON en markdown ni agregues texto adicional.`

// fallbackExtraction возвращает статичные демо-данные
// Используется и при отсутствии ключа, и при сбое модели — в обоих
// случаях confidence = 0, маркер в raw_text виден ревьюеру
func fallbackExtraction() *ExtractedData {
	return &ExtractedData{
		Client: ExtractedClient{
			Name:       "Juan",
			LastName:   "Pérez García",
			TaxID:      "PEGJ850315AB1",
			Email:      "juan.perez@example.com",
			Phone:      "+52 55 1234 5678",
			PersonType: "fisica",
		},
		Policy: ExtractedPolicy{
			PolicyNumber:     "POL-2024-001234",
			Company:          "GNP Seguros",
			PolicyType:       "Autos",
			StartDate:        "2024-01-15",
			EndDate:          "2025-01-15",
			PaymentFrequency: "annual",
			Financial: ExtractedFinancial{
				NetPremium:   10344.83,
				TaxAmount:    1655.17,
				TotalPremium: 12000.00,
				Currency:     "MXN",
			},
		},
		Confidence: 0,
		RawText:    "[datos de demostración]",
	}
}

// ExtractPolicyData извлекает структурированные данные из документа полиса
// Никогда не возвращает ошибку: любой сбой деградирует в демо-данные
// с confidence 0, пайплайн проверки продолжает работать
func (gc *GeminiClient) ExtractPolicyData(data []byte, mimeType string) *ExtractedData {
	if gc.apiKey == "" {
		return fallbackExtraction()
	}

	result, err := gc.callModel(data, mimeType)
	if err != nil {
		log.Printf("⚠️ Gemini: извлечение не удалось, используем демо-данные: %v", err)
		fallback := fallbackExtraction()
		fallback.Confidence = 0 // Явно: fallback из-за сбоя, не из-за отсутствия ключа
		return fallback
	}
	return result
}

func (gc *GeminiClient) callModel(data []byte, mimeType string) (*ExtractedData, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{
						InlineData: &geminiInlineData{
							MimeType: mimeType,
							Data:     base64.StdEncoding.EncodeToString(data),
						},
					},
					{Text: extractionPrompt},
				},
			},
		},
	}

	requestBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", gc.baseURL, gc.model, gc.apiKey)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := gc.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	rawText := geminiResp.Candidates[0].Content.Parts[0].Text
	cleaned := stripMarkdownFences(rawText)

	var extracted ExtractedData
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		return nil, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	// Confidence всегда в [0, 1]
	if extracted.Confidence < 0 {
		extracted.Confidence = 0
	}
	if extracted.Confidence > 1 {
		extracted.Confidence = 1
	}
	extracted.RawText = rawText

	return &extracted, nil
}

// stripMarkdownFences убирает обертку ```json ... ``` из ответа модели
func stripMarkdownFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		// Срезаем первую строку (``` или ```json)
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}
