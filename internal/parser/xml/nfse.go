package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// ABRASF NFS-e XML structures
type nfseRoot struct {
	XMLName xml.Name
	Nfse    *nfseNfse `xml:"Nfse"`
	InfNfse *nfseInf  `xml:"InfNfse"`
}

type nfseNfse struct {
	InfNfse *nfseInf `xml:"InfNfse"`
}

type nfseInf struct {
	Numero            string            `xml:"Numero"`
	CodigoVerificacao string            `xml:"CodigoVerificacao"`
	DataEmissao       string            `xml:"DataEmissao"`
	IdentificacaoRps  *nfseRps          `xml:"IdentificacaoRps"`
	Competencia       string            `xml:"Competencia"`
	Servico           *nfseServico      `xml:"Servico"`
	Prestador         nfsePrestador     `xml:"PrestadorServico"`
	Tomador           *nfseTomador      `xml:"TomadorServico"`
	OrgaoGerador      *nfseOrgaoGerador `xml:"OrgaoGerador"`
}

type nfseRps struct {
	Numero string `xml:"Numero"`
	Serie  string `xml:"Serie"`
	Tipo   string `xml:"Tipo"`
}

type nfseServico struct {
	Valores                   nfseValores `xml:"Valores"`
	ItemListaServico          string      `xml:"ItemListaServico"`
	CodigoCnae                string      `xml:"CodigoCnae"`
	CodigoTributacaoMunicipio string      `xml:"CodigoTributacaoMunicipio"`
	Discriminacao             string      `xml:"Discriminacao"`
	CodigoMunicipio           string      `xml:"CodigoMunicipio"`
}

type nfseValores struct {
	ValorServicos    string `xml:"ValorServicos"`
	ValorDeducoes    string `xml:"ValorDeducoes"`
	ValorPis         string `xml:"ValorPis"`
	ValorCofins      string `xml:"ValorCofins"`
	ValorInss        string `xml:"ValorInss"`
	ValorIr          string `xml:"ValorIr"`
	ValorCsll        string `xml:"ValorCsll"`
	IssRetido        string `xml:"IssRetido"`
	ValorIss         string `xml:"ValorIss"`
	OutrasRetencoes  string `xml:"OutrasRetencoes"`
	BaseCalculo      string `xml:"BaseCalculo"`
	Aliquota         string `xml:"Aliquota"`
	ValorLiquidoNfse string `xml:"ValorLiquidoNfse"`
}

type nfseCpfCnpj struct {
	Cpf  string `xml:"Cpf"`
	Cnpj string `xml:"Cnpj"`
}

type nfsePrestador struct {
	Identificacao struct {
		Cnpj               string       `xml:"Cnpj"`
		CpfCnpj            *nfseCpfCnpj `xml:"CpfCnpj"`
		InscricaoMunicipal string       `xml:"InscricaoMunicipal"`
	} `xml:"IdentificacaoPrestador"`
	RazaoSocial  string        `xml:"RazaoSocial"`
	NomeFantasia string        `xml:"NomeFantasia"`
	Endereco     *nfseEndereco `xml:"Endereco"`
	Contato      *nfseContato  `xml:"Contato"`
}

type nfseTomador struct {
	Identificacao struct {
		CpfCnpj            nfseCpfCnpj `xml:"CpfCnpj"`
		InscricaoMunicipal string      `xml:"InscricaoMunicipal"`
	} `xml:"IdentificacaoTomador"`
	RazaoSocial string        `xml:"RazaoSocial"`
	Endereco    *nfseEndereco `xml:"Endereco"`
	Contato     *nfseContato  `xml:"Contato"`
}

type nfseEndereco struct {
	Endereco        string `xml:"Endereco"`
	Numero          string `xml:"Numero"`
	Complemento     string `xml:"Complemento"`
	Bairro          string `xml:"Bairro"`
	CodigoMunicipio string `xml:"CodigoMunicipio"`
	Uf              string `xml:"Uf"`
	Cep             string `xml:"Cep"`
}

type nfseContato struct {
	Telefone string `xml:"Telefone"`
	Email    string `xml:"Email"`
}

type nfseOrgaoGerador struct {
	CodigoMunicipio string `xml:"CodigoMunicipio"`
	Uf              string `xml:"Uf"`
}

// NFSeAdapter parses ABRASF-style NFS-e documents
type NFSeAdapter struct{}

// NewNFSeAdapter creates a new NFS-e adapter
func NewNFSeAdapter() *NFSeAdapter {
	return &NFSeAdapter{}
}

// DocumentType returns the document family handled
func (a *NFSeAdapter) DocumentType() model.DocumentType {
	return model.DocumentNFSe
}

// CanParse checks if content looks like an NFS-e
func (a *NFSeAdapter) CanParse(content []byte) bool {
	return bytes.Contains(content, []byte("<CompNfse")) ||
		bytes.Contains(content, []byte("<Nfse")) ||
		bytes.Contains(content, []byte("<InfNfse"))
}

// Parse parses NFS-e XML into a Document
func (a *NFSeAdapter) Parse(ctx context.Context, r io.Reader) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.DocumentNFSe, "content", "failed to read content", err)
	}

	data, err := a.parse(content)
	if err != nil {
		return nil, err
	}
	return &model.Document{Type: model.DocumentNFSe, NFSe: data}, nil
}

func (a *NFSeAdapter) parse(content []byte) (*model.NFSEData, error) {
	var root nfseRoot
	if err := unmarshal(content, &root); err != nil {
		return nil, model.NewParseError(model.DocumentNFSe, "xml", "failed to parse XML", err)
	}

	var inf *nfseInf
	switch root.XMLName.Local {
	case "CompNfse":
		if root.Nfse != nil {
			inf = root.Nfse.InfNfse
		}
	case "Nfse":
		inf = root.InfNfse
	default:
		return nil, model.NewParseError(model.DocumentNFSe, "root", "unexpected root element "+root.XMLName.Local, nil)
	}

	if inf == nil {
		return nil, model.NewParseError(model.DocumentNFSe, "InfNfse", "missing InfNfse", nil)
	}
	if inf.Servico == nil {
		return nil, model.NewParseError(model.DocumentNFSe, "Servico", "missing Servico", nil)
	}

	return convertNFSe(inf), nil
}

func convertNFSe(inf *nfseInf) *model.NFSEData {
	result := &model.NFSEData{
		Numero:            inf.Numero,
		CodigoVerificacao: inf.CodigoVerificacao,
		DataEmissao:       optDate(inf.DataEmissao),
		Competencia:       optDate(inf.Competencia),
		Servico:           convertServico(inf.Servico),
		Prestador:         convertPrestador(inf.Prestador),
	}

	if inf.IdentificacaoRps != nil {
		result.Rps = &model.Rps{
			Numero: inf.IdentificacaoRps.Numero,
			Serie:  inf.IdentificacaoRps.Serie,
			Tipo:   inf.IdentificacaoRps.Tipo,
		}
	}

	if t := inf.Tomador; t != nil {
		id := t.Identificacao.CpfCnpj
		result.Tomador = &model.ServiceTaker{
			CpfCnpj:            firstNonEmpty(id.Cnpj, id.Cpf),
			InscricaoMunicipal: t.Identificacao.InscricaoMunicipal,
			RazaoSocial:        t.RazaoSocial,
			Endereco:           convertEndereco(t.Endereco),
			Contato:            convertContato(t.Contato),
		}
	}

	if og := inf.OrgaoGerador; og != nil {
		result.OrgaoGerador = &model.IssuingAuthority{CodigoMunicipio: og.CodigoMunicipio, Uf: og.Uf}
	}

	return result
}

func convertServico(s *nfseServico) model.NFSeService {
	v := s.Valores
	return model.NFSeService{
		Valores: model.NFSeValues{
			ValorServicos:    optAmount(v.ValorServicos),
			ValorDeducoes:    optAmount(v.ValorDeducoes),
			ValorPis:         optAmount(v.ValorPis),
			ValorCofins:      optAmount(v.ValorCofins),
			ValorInss:        optAmount(v.ValorInss),
			ValorIr:          optAmount(v.ValorIr),
			ValorCsll:        optAmount(v.ValorCsll),
			IssRetido:        optAmount(v.IssRetido),
			ValorIss:         optAmount(v.ValorIss),
			OutrasRetencoes:  optAmount(v.OutrasRetencoes),
			BaseCalculo:      optAmount(v.BaseCalculo),
			Aliquota:         optAmount(v.Aliquota),
			ValorLiquidoNfse: optAmount(v.ValorLiquidoNfse),
		},
		ItemListaServico:          s.ItemListaServico,
		CodigoCnae:                s.CodigoCnae,
		CodigoTributacaoMunicipio: s.CodigoTributacaoMunicipio,
		Discriminacao:             s.Discriminacao,
		CodigoMunicipio:           s.CodigoMunicipio,
	}
}

func convertPrestador(p nfsePrestador) model.ServiceProvider {
	cnpj := p.Identificacao.Cnpj
	if cnpj == "" && p.Identificacao.CpfCnpj != nil {
		cnpj = firstNonEmpty(p.Identificacao.CpfCnpj.Cnpj, p.Identificacao.CpfCnpj.Cpf)
	}
	return model.ServiceProvider{
		Cnpj:               validator.OnlyDigits(cnpj),
		InscricaoMunicipal: p.Identificacao.InscricaoMunicipal,
		RazaoSocial:        p.RazaoSocial,
		NomeFantasia:       p.NomeFantasia,
		Endereco:           convertEndereco(p.Endereco),
		Contato:            convertContato(p.Contato),
	}
}

func convertEndereco(e *nfseEndereco) *model.NFSeAddress {
	if e == nil {
		return nil
	}
	return &model.NFSeAddress{
		Endereco:        e.Endereco,
		Numero:          e.Numero,
		Complemento:     e.Complemento,
		Bairro:          e.Bairro,
		CodigoMunicipio: e.CodigoMunicipio,
		Uf:              e.Uf,
		Cep:             e.Cep,
	}
}

func convertContato(c *nfseContato) *model.Contact {
	if c == nil {
		return nil
	}
	return &model.Contact{Telefone: c.Telefone, Email: c.Email}
}

// ParseNFSe parses NFS-e XML into its display model, nil when invalid
func ParseNFSe(content []byte) *model.NFSEData {
	data, err := NewNFSeAdapter().parse(content)
	if err != nil {
		return nil
	}
	return data
}
