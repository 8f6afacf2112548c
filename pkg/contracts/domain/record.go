package domain

// SLAStatus classifies a package against its delivery deadline
type SLAStatus string

const (
	SLAWithinDeadline  SLAStatus = "dentro_prazo"
	SLAOutsideDeadline SLAStatus = "fora_prazo"
	SLALate            SLAStatus = "atrasado"
	SLANotDelivered    SLAStatus = "nao_entregue"
)

// Valid reports whether s is one of the known classifications.
func (s SLAStatus) Valid() bool {
	switch s {
	case SLAWithinDeadline, SLAOutsideDeadline, SLALate, SLANotDelivered:
		return true
	}
	return false
}

// RecordSource tells which spreadsheet(s) contributed to a record
type RecordSource string

const (
	SourceLogmanager RecordSource = "logmanager"
	SourceGestora    RecordSource = "gestora"
	SourceMerged     RecordSource = "merged"
)

// PackageRecord is one logistics order/package after both spreadsheets are merged.
// Records are immutable once a snapshot is published.
type PackageRecord struct {
	ID                 string       `json:"id"`
	DataPedido         string       `json:"dataPedido,omitempty"`
	Pedido             string       `json:"pedido"`
	StatusDoDia        string       `json:"statusDoDia,omitempty"`
	BeepDoDia          string       `json:"beepDoDia,omitempty"`
	Cliente            string       `json:"cliente,omitempty"`
	Conta              string       `json:"conta,omitempty"`
	Zona               string       `json:"zona,omitempty"`
	Responsabilidade   string       `json:"responsabilidade,omitempty"`
	Bipagem            string       `json:"bipagem,omitempty"`
	Criacao            string       `json:"criacao,omitempty"`
	DeveriaSerEntregue string       `json:"deveriaSerEntregue,omitempty"`
	Pacote             string       `json:"pacote,omitempty"`
	Etiqueta           string       `json:"etiqueta,omitempty"`
	PedidoMarketplace  string       `json:"pedidoMarketplace,omitempty"`
	Frete              string       `json:"frete,omitempty"`
	Vendedor           string       `json:"vendedor,omitempty"`
	CentroDeCusto      string       `json:"centroDeCusto,omitempty"`
	StatusDiaGestora   string       `json:"statusDiaGestora,omitempty"`
	NomeComprador      string       `json:"nomeComprador,omitempty"`
	CEP                string       `json:"cep,omitempty"`
	Logradouro         string       `json:"logradouro,omitempty"`
	Numero             string       `json:"numero,omitempty"`
	Bairro             string       `json:"bairro,omitempty"`
	Cidade             string       `json:"cidade,omitempty"`
	Complemento        string       `json:"complemento,omitempty"`
	DataStatusDia      string       `json:"dataStatusDia,omitempty"`
	PrevisaoEntrega    string       `json:"previsaoEntrega,omitempty"`
	Entrega            string       `json:"entrega,omitempty"`
	SLA                SLAStatus    `json:"sla,omitempty"`
	Prazo              int          `json:"prazo"`
	Atraso             *int         `json:"atraso,omitempty"`
	Source             RecordSource `json:"source,omitempty"`
}

// Delay returns the delay in days, or 0 when it is not defined.
func (r *PackageRecord) Delay() int {
	if r.Atraso == nil {
		return 0
	}
	return *r.Atraso
}

// HasDelay reports whether the record was delivered after the expected date.
func (r *PackageRecord) HasDelay() bool {
	return r.Atraso != nil && *r.Atraso > 0
}

// WithinSLA reports whether the record was delivered within the deadline.
func (r *PackageRecord) WithinSLA() bool {
	return r.SLA == SLAWithinDeadline
}

// IntPtr is a helper for building records with a delay.
func IntPtr(v int) *int {
	return &v
}
