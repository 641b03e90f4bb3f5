package core

// error_messages.go maps technical errors to messages shown to dashboard
// users. Each message carries a code users can quote to support.
//
// Codes by category:
//
//	FILE001-FILE006  upload and file format problems
//	VAL001-VAL006    file contents and selections
//	SES001           session lookup
//	EXP001           spreadsheet export
//	UPL001-UPL003    request processing
//	DB001-DB003      history database
//	RATE001          request throttling
//	ERR000           anything else; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// SelectionPrompt is shown instead of the dashboard when a selection is empty.
const SelectionPrompt = "Selecione pelo menos um Tipo de Unidade e um Estado (UF)."

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File
	{"file too large", UserMessage{
		Message: "O arquivo excede o tamanho máximo permitido",
		Action:  "Envie um arquivo menor",
		Code:    "FILE001",
	}},
	{"invalid csv", UserMessage{
		Message: "O arquivo não é um CSV válido",
		Action:  "Verifique se o arquivo usa vírgulas como separador",
		Code:    "FILE002",
	}},
	{"invalid spreadsheet", UserMessage{
		Message: "O arquivo não é uma planilha Excel válida",
		Action:  "Salve o arquivo novamente no formato .xlsx",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "Nenhum arquivo foi selecionado",
		Action:  "Escolha um arquivo .xlsx ou .csv",
		Code:    "FILE004",
	}},
	{"empty file", UserMessage{
		Message: "O arquivo enviado está vazio",
		Action:  "Envie um arquivo com cabeçalho e linhas de dados",
		Code:    "FILE005",
	}},
	{"unsupported file type", UserMessage{
		Message: "Tipo de arquivo não suportado",
		Action:  "Envie um arquivo .xlsx ou .csv",
		Code:    "FILE006",
	}},

	// Validation
	{"missing required column", UserMessage{
		Message: "Coluna obrigatória ausente no arquivo",
		Action:  "Inclua as colunas de tipo de unidade, UF e as cinco quantidades",
		Code:    "VAL001",
	}},
	{"invalid number", UserMessage{
		Message: "Valor numérico inválido",
		Action:  "Use apenas números nas colunas de quantidade",
		Code:    "VAL002",
	}},
	{"negative quantity", UserMessage{
		Message: "Quantidade negativa encontrada",
		Action:  "Corrija as quantidades para valores maiores ou iguais a zero",
		Code:    "VAL003",
	}},
	{"unknown region", UserMessage{
		Message: "UF desconhecida",
		Action:  "Use a sigla de duas letras de um estado brasileiro",
		Code:    "VAL004",
	}},
	{"empty selection", UserMessage{
		Message: SelectionPrompt,
		Action:  "Escolha ao menos um valor em cada filtro",
		Code:    "VAL005",
	}},
	{"group by", UserMessage{
		Message: "Agrupamento inválido",
		Action:  "Agrupe por facility_type, region ou ambos",
		Code:    "VAL006",
	}},

	// Session
	{"session not found", UserMessage{
		Message: "Sessão não encontrada ou expirada",
		Action:  "Envie o arquivo novamente",
		Code:    "SES001",
	}},

	// Export
	{"export failed", UserMessage{
		Message: "Não foi possível gerar a planilha",
		Action:  "Tente novamente; os gráficos e tabelas continuam válidos",
		Code:    "EXP001",
	}},

	// Request processing
	{"too many files being processed", UserMessage{
		Message: "O sistema está processando outros arquivos",
		Action:  "Aguarde um momento e tente novamente",
		Code:    "UPL001",
	}},
	{"context canceled", UserMessage{
		Message: "A requisição foi cancelada",
		Action:  "Tente novamente",
		Code:    "UPL002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "A requisição excedeu o tempo limite",
		Action:  "Tente um arquivo menor ou tente mais tarde",
		Code:    "UPL003",
	}},

	// History database
	{"connection refused", UserMessage{
		Message: "Não foi possível conectar ao banco de dados",
		Action:  "Tente novamente em alguns instantes",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "A conexão com o banco de dados foi interrompida",
		Action:  "Tente novamente",
		Code:    "DB002",
	}},
	{"history disabled", UserMessage{
		Message: "O histórico de envios não está configurado",
		Action:  "Defina DATABASE_URL para habilitar o histórico",
		Code:    "DB003",
	}},

	// Charts
	{"no data to chart", UserMessage{
		Message: "Não há dados para o gráfico solicitado",
		Action:  "Inclua a unidade e ao menos uma UF na seleção",
		Code:    "CHT001",
	}},

	// Throttling
	{"rate limit", UserMessage{
		Message: "Muitas requisições",
		Action:  "Aguarde um momento antes de tentar novamente",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "Ocorreu um erro inesperado",
	Action:  "Tente novamente ou contate o suporte",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Unmatched errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
