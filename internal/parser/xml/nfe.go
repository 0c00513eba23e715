package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// NF-e 4.00 XML structures. Tags carry no namespace so documents with or
// without the portalfiscal xmlns decode alike.
type nfeRoot struct {
	XMLName xml.Name
	NFe     *nfeDoc  `xml:"NFe"`
	InfNFe  *nfeInf  `xml:"infNFe"`
	ProtNFe *nfeProt `xml:"protNFe"`
}

type nfeDoc struct {
	InfNFe *nfeInf `xml:"infNFe"`
}

type nfeInf struct {
	ID      string      `xml:"Id,attr"`
	Ide     *nfeIde     `xml:"ide"`
	Emit    nfeParty    `xml:"emit"`
	Dest    *nfeParty   `xml:"dest"`
	Det     []nfeDet    `xml:"det"`
	Total   nfeTotal    `xml:"total>ICMSTot"`
	Transp  *nfeTransp  `xml:"transp"`
	Pag     []nfeDetPag `xml:"pag>detPag"`
	InfAdic nfeInfAdic  `xml:"infAdic"`
}

type nfeIde struct {
	NatOp    string `xml:"natOp"`
	Mod      string `xml:"mod"`
	Serie    string `xml:"serie"`
	NNF      string `xml:"nNF"`
	DhEmi    string `xml:"dhEmi"`
	DEmi     string `xml:"dEmi"`
	DhSaiEnt string `xml:"dhSaiEnt"`
}

// nfeParty covers both emit and dest
type nfeParty struct {
	CNPJ      string   `xml:"CNPJ"`
	CPF       string   `xml:"CPF"`
	XNome     string   `xml:"xNome"`
	XFant     string   `xml:"xFant"`
	EnderEmit nfeEnder `xml:"enderEmit"`
	EnderDest nfeEnder `xml:"enderDest"`
	IE        string   `xml:"IE"`
	IM        string   `xml:"IM"`
	CRT       string   `xml:"CRT"`
	Email     string   `xml:"email"`
}

type nfeEnder struct {
	XLgr    string `xml:"xLgr"`
	Nro     string `xml:"nro"`
	XCpl    string `xml:"xCpl"`
	XBairro string `xml:"xBairro"`
	XMun    string `xml:"xMun"`
	UF      string `xml:"UF"`
	CEP     string `xml:"CEP"`
	XPais   string `xml:"xPais"`
	Fone    string `xml:"fone"`
}

type nfeDet struct {
	NItem   string     `xml:"nItem,attr"`
	Prod    nfeProd    `xml:"prod"`
	Imposto nfeImposto `xml:"imposto"`
}

type nfeProd struct {
	CProd  string `xml:"cProd"`
	XProd  string `xml:"xProd"`
	NCM    string `xml:"NCM"`
	CEST   string `xml:"CEST"`
	CFOP   string `xml:"CFOP"`
	UCom   string `xml:"uCom"`
	QCom   string `xml:"qCom"`
	VUnCom string `xml:"vUnCom"`
	VProd  string `xml:"vProd"`
}

type nfeImposto struct {
	ICMS   nfeTaxGroup `xml:"ICMS"`
	IPI    nfeTaxGroup `xml:"IPI"`
	PIS    nfeTaxGroup `xml:"PIS"`
	COFINS nfeTaxGroup `xml:"COFINS"`
}

// nfeTaxGroup holds whichever CST variant is present (ICMS00, ICMS20,
// IPITrib, PISAliq, PISNT, ...)
type nfeTaxGroup struct {
	Variants []nfeTaxValues `xml:",any"`
}

type nfeTaxValues struct {
	XMLName xml.Name
	VICMS   string `xml:"vICMS"`
	VIPI    string `xml:"vIPI"`
	VPIS    string `xml:"vPIS"`
	VCOFINS string `xml:"vCOFINS"`
}

func (g nfeTaxGroup) first(field func(v nfeTaxValues) string) string {
	for _, v := range g.Variants {
		if s := field(v); s != "" {
			return s
		}
	}
	return ""
}

type nfeTotal struct {
	VBC      string `xml:"vBC"`
	VICMS    string `xml:"vICMS"`
	VST      string `xml:"vST"`
	VProd    string `xml:"vProd"`
	VFrete   string `xml:"vFrete"`
	VSeg     string `xml:"vSeg"`
	VDesc    string `xml:"vDesc"`
	VII      string `xml:"vII"`
	VIPI     string `xml:"vIPI"`
	VPIS     string `xml:"vPIS"`
	VCOFINS  string `xml:"vCOFINS"`
	VOutro   string `xml:"vOutro"`
	VNF      string `xml:"vNF"`
	VTotTrib string `xml:"vTotTrib"`
}

type nfeTransp struct {
	ModFrete   string         `xml:"modFrete"`
	Transporta *nfeTransporta `xml:"transporta"`
	Vol        []nfeVol       `xml:"vol"`
}

type nfeTransporta struct {
	CNPJ   string `xml:"CNPJ"`
	CPF    string `xml:"CPF"`
	XNome  string `xml:"xNome"`
	IE     string `xml:"IE"`
	XEnder string `xml:"xEnder"`
	XMun   string `xml:"xMun"`
	UF     string `xml:"UF"`
}

type nfeVol struct {
	QVol string `xml:"qVol"`
	Esp  string `xml:"esp"`
}

type nfeDetPag struct {
	IndPag string `xml:"indPag"`
	TPag   string `xml:"tPag"`
	VPag   string `xml:"vPag"`
}

type nfeInfAdic struct {
	InfCpl     string `xml:"infCpl"`
	InfAdFisco string `xml:"infAdFisco"`
}

type nfeProt struct {
	InfProt struct {
		ChNFe    string `xml:"chNFe"`
		DhRecbto string `xml:"dhRecbto"`
		NProt    string `xml:"nProt"`
		CStat    string `xml:"cStat"`
		XMotivo  string `xml:"xMotivo"`
	} `xml:"infProt"`
}

// NFeAdapter parses NF-e documents, authorized (nfeProc) or not (bare NFe)
type NFeAdapter struct{}

// NewNFeAdapter creates a new NF-e adapter
func NewNFeAdapter() *NFeAdapter {
	return &NFeAdapter{}
}

// DocumentType returns the document family handled
func (a *NFeAdapter) DocumentType() model.DocumentType {
	return model.DocumentNFe
}

// CanParse checks if content looks like an NF-e
func (a *NFeAdapter) CanParse(content []byte) bool {
	return bytes.Contains(content, []byte("<nfeProc")) ||
		bytes.Contains(content, []byte("<NFe")) ||
		bytes.Contains(content, []byte("<infNFe"))
}

// Parse parses NF-e XML into a Document
func (a *NFeAdapter) Parse(ctx context.Context, r io.Reader) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.DocumentNFe, "content", "failed to read content", err)
	}

	data, err := a.parse(content)
	if err != nil {
		return nil, err
	}
	return &model.Document{Type: model.DocumentNFe, NFe: data}, nil
}

func (a *NFeAdapter) parse(content []byte) (*model.NFEData, error) {
	var root nfeRoot
	if err := unmarshal(content, &root); err != nil {
		return nil, model.NewParseError(model.DocumentNFe, "xml", "failed to parse XML", err)
	}

	var inf *nfeInf
	switch root.XMLName.Local {
	case "nfeProc":
		if root.NFe != nil {
			inf = root.NFe.InfNFe
		}
	case "NFe":
		inf = root.InfNFe
	default:
		return nil, model.NewParseError(model.DocumentNFe, "root", "unexpected root element "+root.XMLName.Local, nil)
	}

	if inf == nil {
		return nil, model.NewParseError(model.DocumentNFe, "infNFe", "missing infNFe", nil)
	}
	if inf.Ide == nil || strings.TrimSpace(inf.Ide.NNF) == "" {
		return nil, model.NewParseError(model.DocumentNFe, "ide", "missing document number", nil)
	}

	return convertNFe(inf, root.ProtNFe), nil
}

func convertNFe(inf *nfeInf, prot *nfeProt) *model.NFEData {
	ide := inf.Ide
	result := &model.NFEData{
		Number:            ide.NNF,
		Series:            ide.Serie,
		Model:             ide.Mod,
		NatureOfOperation: ide.NatOp,
		IssuedAt:          optDate(firstNonEmpty(ide.DhEmi, ide.DEmi)),
		EntryExitAt:       optDate(ide.DhSaiEnt),
		Emitter:           convertParty(inf.Emit, inf.Emit.EnderEmit),
		Notes:             inf.InfAdic.InfCpl,
		FiscoNotes:        inf.InfAdic.InfAdFisco,
	}

	key := strings.TrimPrefix(inf.ID, "NFe")
	if prot != nil {
		p := prot.InfProt
		result.Protocol = p.NProt
		result.StatusCode = p.CStat
		result.Status = p.XMotivo
		result.AuthorizedAt = optDate(p.DhRecbto)
		if p.ChNFe != "" {
			key = p.ChNFe
		}
	}
	result.AccessKeyDigits = validator.OnlyDigits(key)
	result.AccessKey = validator.FormatAccessKey(key)

	if inf.Dest != nil {
		dest := convertParty(*inf.Dest, inf.Dest.EnderDest)
		result.Recipient = &dest
	}

	for i, det := range inf.Det {
		result.Items = append(result.Items, convertNFeItem(i, det))
	}

	result.Totals = convertNFeTotals(inf.Total)

	if inf.Transp != nil {
		result.Transport = convertTransport(inf.Transp)
	}

	for _, p := range inf.Pag {
		result.Payments = append(result.Payments, model.Payment{
			IndPag: p.IndPag,
			TPag:   p.TPag,
			VPag:   amount(p.VPag),
		})
	}

	return result
}

func convertParty(p nfeParty, ender nfeEnder) model.Empresa {
	result := model.Empresa{
		Document:     p.CNPJ,
		DocumentType: "CNPJ",
		Name:         p.XNome,
		TradeName:    p.XFant,
		IE:           p.IE,
		IM:           p.IM,
		CRT:          p.CRT,
		Email:        p.Email,
		Phone:        ender.Fone,
		Address: model.Address{
			Street:       ender.XLgr,
			Number:       ender.Nro,
			Complement:   ender.XCpl,
			Neighborhood: ender.XBairro,
			City:         ender.XMun,
			UF:           ender.UF,
			CEP:          ender.CEP,
			Country:      ender.XPais,
		},
	}
	if p.CNPJ == "" && p.CPF != "" {
		result.Document = p.CPF
		result.DocumentType = "CPF"
	}
	return result
}

func convertNFeItem(i int, det nfeDet) model.NFEItem {
	number, err := strconv.Atoi(det.NItem)
	if err != nil {
		number = i + 1
	}

	taxes := model.ItemTaxes{
		ICMS:   amount(det.Imposto.ICMS.first(func(v nfeTaxValues) string { return v.VICMS })),
		IPI:    amount(det.Imposto.IPI.first(func(v nfeTaxValues) string { return v.VIPI })),
		PIS:    amount(det.Imposto.PIS.first(func(v nfeTaxValues) string { return v.VPIS })),
		COFINS: amount(det.Imposto.COFINS.first(func(v nfeTaxValues) string { return v.VCOFINS })),
	}
	taxes.Total = taxes.ICMS.Add(taxes.IPI).Add(taxes.PIS).Add(taxes.COFINS)

	return model.NFEItem{
		Number:      number,
		Code:        det.Prod.CProd,
		Description: det.Prod.XProd,
		NCM:         det.Prod.NCM,
		CEST:        det.Prod.CEST,
		CFOP:        det.Prod.CFOP,
		Unit:        det.Prod.UCom,
		Quantity:    amount(det.Prod.QCom),
		UnitPrice:   amount(det.Prod.VUnCom),
		Total:       amount(det.Prod.VProd),
		Taxes:       taxes,
	}
}

func convertNFeTotals(t nfeTotal) model.NFETotals {
	return model.NFETotals{
		VBC:      amount(t.VBC),
		VICMS:    amount(t.VICMS),
		VProd:    amount(t.VProd),
		VFrete:   amount(t.VFrete),
		VSeg:     amount(t.VSeg),
		VDesc:    amount(t.VDesc),
		VIPI:     amount(t.VIPI),
		VPIS:     amount(t.VPIS),
		VCOFINS:  amount(t.VCOFINS),
		VOutro:   amount(t.VOutro),
		VNF:      amount(t.VNF),
		VTotTrib: amount(t.VTotTrib),
	}
}

func convertTransport(t *nfeTransp) *model.Transport {
	result := &model.Transport{ModFrete: t.ModFrete}
	if tr := t.Transporta; tr != nil {
		result.Transporter = &model.Transporter{
			CNPJ:    firstNonEmpty(tr.CNPJ, tr.CPF),
			Name:    tr.XNome,
			IE:      tr.IE,
			Address: tr.XEnder,
			City:    tr.XMun,
			UF:      tr.UF,
		}
	}
	if len(t.Vol) > 0 {
		v := t.Vol[0]
		result.Volume = &model.Volume{Quantity: optAmount(v.QVol), Specie: v.Esp}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseNFe parses NF-e XML into its display model. It returns nil, never
// an error, when the content is malformed or is not an NF-e.
func ParseNFe(content []byte) *model.NFEData {
	data, err := NewNFeAdapter().parse(content)
	if err != nil {
		return nil
	}
	return data
}
