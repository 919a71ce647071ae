package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

func ServiceUnavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// ======================================================
// Mapeamento de erros de domínio
// ======================================================

var messages = map[string]string{
	"invalid_request":      "Dados inválidos.",
	"missing_fields":       "Campos obrigatórios ausentes.",
	"invalid_date":         "Data inválida.",
	"invalid_date_or_time": "Data ou hora inválida.",
	"start_in_past":        "Horário no passado.",
	"self_booking":         "Não é possível reservar o próprio serviço.",
	"service_not_found":    "Serviço não encontrado.",
	"outside_schedule":     "Fora do horário de atendimento.",
	"time_conflict":        "Este horário não está mais disponível. Escolha outro.",
	"invalid_status":       "Status inválido.",
	"invalid_transition":   "Transição de status não permitida.",
	"booking_not_found":    "Reserva não encontrada.",
	"invalid_day_of_week":  "Dia da semana inválido.",
	"invalid_time":         "Horário inválido.",
	"invalid_time_range":   "O início deve ser antes do fim.",
	"duplicate_day":        "Dia da semana repetido.",
	"role_not_allowed":     "Perfil sem permissão.",
	"review_not_allowed":   "Só é possível avaliar seus serviços concluídos.",
	"already_reviewed":     "Esta reserva já foi avaliada.",
	"invalid_rating":       "Nota deve ser entre 1 e 5.",
}

var defaultByKind = map[Kind]struct {
	status  int
	message string
}{
	KindValidation:   {http.StatusBadRequest, "Dados inválidos."},
	KindConflict:     {http.StatusConflict, "Conflito."},
	KindNotFound:     {http.StatusNotFound, "Não encontrado."},
	KindUnauthorized: {http.StatusUnauthorized, "Não autenticado."},
	KindForbidden:    {http.StatusForbidden, "Acesso negado."},
	KindPersistence:  {http.StatusInternalServerError, "Erro interno."},
}

// Respond escreve o erro no formato padrão. Erros de persistência e
// desconhecidos viram 500 com mensagem opaca.
func Respond(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := KindOf(err)
	d, ok := defaultByKind[kind]
	if !ok || kind == KindPersistence {
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	var be BusinessError
	_ = errors.As(err, &be)

	msg, ok := messages[be.Code]
	if !ok {
		msg = d.message
	}
	Write(c, d.status, be.Code, msg)
}
