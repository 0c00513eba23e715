package builder

import (
	"github.com/beevik/etree"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// Decimal places of NFS-e Valores fields
const (
	aliquotaPlaces  = 4
	issRetidoPlaces = 0
)

// BuildNFSeXML serializes a services invoice into the ABRASF CompNfse layout
func BuildNFSeXML(in model.NFSeInput, opts ...Option) string {
	doc := newDocument()

	inf := doc.CreateElement("CompNfse").
		CreateElement("Nfse").
		CreateElement("InfNfse")

	optText(inf, "Numero", in.Numero)
	optText(inf, "CodigoVerificacao", in.CodigoVerificacao)
	text(inf, "DataEmissao", in.DataEmissao.Format(localDateTimeLayout))

	rps := inf.CreateElement("IdentificacaoRps")
	text(rps, "Numero", in.Rps.Numero)
	text(rps, "Serie", in.Rps.Serie)
	text(rps, "Tipo", in.Rps.Tipo)

	text(inf, "Competencia", in.Competencia.Format(dateLayout))

	writeServico(inf, in.Servico)
	writePrestador(inf, in.Prestador)
	if in.Tomador != nil {
		writeTomador(inf, *in.Tomador)
	}
	if og := in.OrgaoGerador; og != nil {
		el := inf.CreateElement("OrgaoGerador")
		text(el, "CodigoMunicipio", og.CodigoMunicipio)
		text(el, "Uf", og.Uf)
	}

	return render(doc, opts)
}

func writeServico(parent *etree.Element, s model.NFSeService) {
	serv := parent.CreateElement("Servico")

	v := s.Valores
	val := serv.CreateElement("Valores")
	optFixed(val, "ValorServicos", v.ValorServicos, moneyPlaces)
	optFixed(val, "ValorDeducoes", v.ValorDeducoes, moneyPlaces)
	optFixed(val, "ValorPis", v.ValorPis, moneyPlaces)
	optFixed(val, "ValorCofins", v.ValorCofins, moneyPlaces)
	optFixed(val, "ValorInss", v.ValorInss, moneyPlaces)
	optFixed(val, "ValorIr", v.ValorIr, moneyPlaces)
	optFixed(val, "ValorCsll", v.ValorCsll, moneyPlaces)
	optFixed(val, "IssRetido", v.IssRetido, issRetidoPlaces)
	optFixed(val, "ValorIss", v.ValorIss, moneyPlaces)
	optFixed(val, "OutrasRetencoes", v.OutrasRetencoes, moneyPlaces)
	optFixed(val, "BaseCalculo", v.BaseCalculo, moneyPlaces)
	optFixed(val, "Aliquota", v.Aliquota, aliquotaPlaces)
	optFixed(val, "ValorLiquidoNfse", v.ValorLiquidoNfse, moneyPlaces)

	text(serv, "ItemListaServico", s.ItemListaServico)
	optText(serv, "CodigoCnae", s.CodigoCnae)
	text(serv, "CodigoTributacaoMunicipio", s.CodigoTributacaoMunicipio)
	text(serv, "Discriminacao", s.Discriminacao)
	text(serv, "CodigoMunicipio", s.CodigoMunicipio)
}

func writePrestador(parent *etree.Element, p model.ServiceProvider) {
	el := parent.CreateElement("PrestadorServico")
	id := el.CreateElement("IdentificacaoPrestador")
	text(id, "Cnpj", validator.OnlyDigits(p.Cnpj))
	optText(id, "InscricaoMunicipal", p.InscricaoMunicipal)
	text(el, "RazaoSocial", p.RazaoSocial)
	optText(el, "NomeFantasia", p.NomeFantasia)
	writeNFSeAddress(el, p.Endereco)
	writeContact(el, p.Contato)
}

func writeTomador(parent *etree.Element, t model.ServiceTaker) {
	el := parent.CreateElement("TomadorServico")
	group(el, "IdentificacaoTomador", func(id *etree.Element) {
		if doc := validator.OnlyDigits(t.CpfCnpj); doc != "" {
			cc := id.CreateElement("CpfCnpj")
			if len(doc) == 11 {
				text(cc, "Cpf", doc)
			} else {
				text(cc, "Cnpj", doc)
			}
		}
		optText(id, "InscricaoMunicipal", t.InscricaoMunicipal)
	})
	text(el, "RazaoSocial", t.RazaoSocial)
	writeNFSeAddress(el, t.Endereco)
	writeContact(el, t.Contato)
}

func writeNFSeAddress(parent *etree.Element, a *model.NFSeAddress) {
	if a == nil {
		return
	}
	group(parent, "Endereco", func(el *etree.Element) {
		optText(el, "Endereco", a.Endereco)
		optText(el, "Numero", a.Numero)
		optText(el, "Complemento", a.Complemento)
		optText(el, "Bairro", a.Bairro)
		optText(el, "CodigoMunicipio", a.CodigoMunicipio)
		optText(el, "Uf", a.Uf)
		optText(el, "Cep", validator.OnlyDigits(a.Cep))
	})
}

func writeContact(parent *etree.Element, c *model.Contact) {
	if c == nil {
		return
	}
	group(parent, "Contato", func(el *etree.Element) {
		optText(el, "Telefone", validator.OnlyDigits(c.Telefone))
		optText(el, "Email", c.Email)
	})
}
