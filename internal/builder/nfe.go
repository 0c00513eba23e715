package builder

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// Namespace and layout version written on the NF-e root elements
const (
	NFeNamespace = "http://www.portalfiscal.inf.br/nfe"
	NFeVersion   = "4.00"
)

// Decimal places of NF-e numeric fields
const (
	quantityPlaces  = 4
	unitPricePlaces = 10
	moneyPlaces     = 2
	ratePlaces      = 2
	volumePlaces    = 0
)

// BuildNFeXML serializes a goods invoice into the nfeProc layout.
// Line numbers are written as supplied; the caller keeps them unique.
func BuildNFeXML(in model.NFeInput, opts ...Option) string {
	doc := newDocument()

	proc := doc.CreateElement("nfeProc")
	proc.CreateAttr("xmlns", NFeNamespace)
	proc.CreateAttr("versao", NFeVersion)

	nfe := proc.CreateElement("NFe")
	nfe.CreateAttr("xmlns", NFeNamespace)

	inf := nfe.CreateElement("infNFe")
	if key := validator.OnlyDigits(in.AccessKey); key != "" {
		inf.CreateAttr("Id", "NFe"+key)
	}
	inf.CreateAttr("versao", NFeVersion)

	writeIde(inf, in.Ide)
	writeEmit(inf, in.Emitter)
	if in.Recipient != nil {
		writeDest(inf, *in.Recipient)
	}
	for _, item := range in.Items {
		writeDet(inf, item)
	}
	writeTotal(inf, in.Totals)
	if in.Transport != nil {
		writeTransp(inf, *in.Transport)
	}
	if in.Payment != nil {
		writePag(inf, *in.Payment)
	}
	if in.AdditionalInfo != "" {
		adic := inf.CreateElement("infAdic")
		text(adic, "infCpl", in.AdditionalInfo)
	}

	if in.Protocol != nil {
		writeProtocol(proc, in.AccessKey, *in.Protocol)
	}

	return render(doc, opts)
}

func writeIde(parent *etree.Element, ide model.Ide) {
	el := parent.CreateElement("ide")
	optText(el, "natOp", ide.NatureOfOperation)
	optText(el, "mod", ide.Model)
	text(el, "serie", ide.Series)
	text(el, "nNF", ide.Number)
	text(el, "dhEmi", ide.IssuedAt.Format(dateTimeLayout))
	optTime(el, "dhSaiEnt", ide.EntryExitAt, dateTimeLayout)
}

func writeEmit(parent *etree.Element, e model.Emitter) {
	el := parent.CreateElement("emit")
	text(el, "CNPJ", validator.OnlyDigits(e.CNPJ))
	text(el, "xNome", e.Name)
	optText(el, "xFant", e.TradeName)
	writeAddress(el, "enderEmit", e.Address, e.Phone)
	optText(el, "IE", e.IE)
	optText(el, "IM", e.IM)
	optText(el, "CNAE", e.CNAE)
	optText(el, "CRT", e.CRT)
}

func writeDest(parent *etree.Element, r model.Recipient) {
	el := parent.CreateElement("dest")
	id := validator.OnlyDigits(r.CNPJCPF)
	if len(id) == 11 {
		text(el, "CPF", id)
	} else {
		text(el, "CNPJ", id)
	}
	text(el, "xNome", r.Name)
	writeAddress(el, "enderDest", r.Address, r.Phone)
	optText(el, "IE", r.IE)
	optText(el, "email", r.Email)
}

func writeAddress(parent *etree.Element, tag string, a model.Address, phone string) {
	group(parent, tag, func(el *etree.Element) {
		optText(el, "xLgr", a.Street)
		optText(el, "nro", a.Number)
		optText(el, "xCpl", a.Complement)
		optText(el, "xBairro", a.Neighborhood)
		optText(el, "xMun", a.City)
		optText(el, "UF", a.UF)
		optText(el, "CEP", validator.OnlyDigits(a.CEP))
		optText(el, "xPais", a.Country)
		optText(el, "fone", validator.OnlyDigits(phone))
	})
}

func writeDet(parent *etree.Element, item model.LineItem) {
	det := parent.CreateElement("det")
	det.CreateAttr("nItem", strconv.Itoa(item.LineNumber))

	prod := det.CreateElement("prod")
	optText(prod, "cProd", item.Code)
	text(prod, "xProd", item.Description)
	optText(prod, "NCM", item.NCM)
	optText(prod, "CEST", item.CEST)
	optText(prod, "CFOP", item.CFOP)
	text(prod, "uCom", item.Unit)
	fixed(prod, "qCom", item.Quantity, quantityPlaces)
	fixed(prod, "vUnCom", item.UnitPrice, unitPricePlaces)
	fixed(prod, "vProd", item.TotalPrice, moneyPlaces)
	text(prod, "uTrib", item.Unit)
	fixed(prod, "qTrib", item.Quantity, quantityPlaces)
	fixed(prod, "vUnTrib", item.UnitPrice, unitPricePlaces)

	writeImposto(det, item.Taxes)
}

func writeImposto(parent *etree.Element, t model.Taxes) {
	imp := parent.CreateElement("imposto")

	if t.ICMS != nil {
		icms := imp.CreateElement("ICMS").CreateElement("ICMS00")
		optText(icms, "orig", t.ICMS.Orig)
		text(icms, "CST", orDefault(t.ICMS.CST, model.DefaultICMSCST))
		optText(icms, "modBC", t.ICMS.ModBC)
		optFixed(icms, "vBC", t.ICMS.VBC, moneyPlaces)
		optFixed(icms, "pICMS", t.ICMS.PICMS, ratePlaces)
		optFixed(icms, "vICMS", t.ICMS.VICMS, moneyPlaces)
	}

	if t.IPI != nil {
		ipi := imp.CreateElement("IPI")
		optText(ipi, "cEnq", t.IPI.CEnq)
		trib := ipi.CreateElement("IPITrib")
		text(trib, "CST", orDefault(t.IPI.CST, model.DefaultIPICST))
		optFixed(trib, "vBC", t.IPI.VBC, moneyPlaces)
		optFixed(trib, "pIPI", t.IPI.PIPI, ratePlaces)
		optFixed(trib, "vIPI", t.IPI.VIPI, moneyPlaces)
	}

	if t.PIS != nil {
		pis := imp.CreateElement("PIS").CreateElement("PISNT")
		text(pis, "CST", orDefault(t.PIS.CST, model.DefaultPISCST))
	}

	if t.COFINS != nil {
		cofins := imp.CreateElement("COFINS").CreateElement("COFINSNT")
		text(cofins, "CST", orDefault(t.COFINS.CST, model.DefaultCOFINSCST))
	}
}

func writeTotal(parent *etree.Element, t model.Totals) {
	tot := parent.CreateElement("total").CreateElement("ICMSTot")
	optFixed(tot, "vBC", t.VBC, moneyPlaces)
	optFixed(tot, "vICMS", t.VICMS, moneyPlaces)
	optFixed(tot, "vProd", t.VProd, moneyPlaces)
	optFixed(tot, "vFrete", t.VFrete, moneyPlaces)
	optFixed(tot, "vDesc", t.VDesc, moneyPlaces)
	optFixed(tot, "vIPI", t.VIPI, moneyPlaces)
	fixed(tot, "vNF", t.VNF, moneyPlaces)
	optFixed(tot, "vTotTrib", t.VTotTrib, moneyPlaces)
}

func writeTransp(parent *etree.Element, t model.Transport) {
	el := parent.CreateElement("transp")
	text(el, "modFrete", t.ModFrete)

	if tr := t.Transporter; tr != nil {
		group(el, "transporta", func(ta *etree.Element) {
			optText(ta, "CNPJ", validator.OnlyDigits(tr.CNPJ))
			optText(ta, "xNome", tr.Name)
			optText(ta, "IE", tr.IE)
			optText(ta, "xEnder", tr.Address)
			optText(ta, "xMun", tr.City)
			optText(ta, "UF", tr.UF)
		})
	}

	if v := t.Volume; v != nil {
		group(el, "vol", func(vol *etree.Element) {
			optFixed(vol, "qVol", v.Quantity, volumePlaces)
			optText(vol, "esp", v.Specie)
		})
	}
}

func writePag(parent *etree.Element, p model.Payment) {
	det := parent.CreateElement("pag").CreateElement("detPag")
	optText(det, "indPag", p.IndPag)
	text(det, "tPag", p.TPag)
	fixed(det, "vPag", p.VPag, moneyPlaces)
}

func writeProtocol(parent *etree.Element, accessKey string, p model.Protocol) {
	prot := parent.CreateElement("protNFe")
	prot.CreateAttr("versao", NFeVersion)
	inf := prot.CreateElement("infProt")
	optText(inf, "chNFe", validator.OnlyDigits(accessKey))
	optTime(inf, "dhRecbto", p.ReceivedAt, dateTimeLayout)
	text(inf, "nProt", p.Number)
	optText(inf, "cStat", p.StatusCode)
	optText(inf, "xMotivo", p.Reason)
}
