package builder_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/fiscal-processor/internal/builder"
	"github.com/rezonia/fiscal-processor/internal/model"
)

func fullNFSe() model.NFSeInput {
	return model.NFSeInput{
		Numero:            "2024000123",
		CodigoVerificacao: "AB12-CD34",
		DataEmissao:       time.Date(2024, 3, 10, 9, 15, 0, 0, brt),
		Rps:               model.Rps{Numero: "55", Serie: "A", Tipo: "1"},
		Competencia:       time.Date(2024, 3, 1, 0, 0, 0, 0, brt),
		Servico: model.NFSeService{
			Valores: model.NFSeValues{
				ValorServicos:    ptr("1000"),
				ValorDeducoes:    ptr("0"),
				ValorPis:         ptr("6.5"),
				ValorCofins:      ptr("30"),
				ValorInss:        ptr("0"),
				ValorIr:          ptr("15"),
				ValorCsll:        ptr("10"),
				IssRetido:        ptr("2"),
				ValorIss:         ptr("50"),
				OutrasRetencoes:  ptr("0"),
				BaseCalculo:      ptr("1000"),
				Aliquota:         ptr("5"),
				ValorLiquidoNfse: ptr("938.5"),
			},
			ItemListaServico:          "01.07",
			CodigoCnae:                "6209100",
			CodigoTributacaoMunicipio: "010701",
			Discriminacao:             "Suporte técnico em informática",
			CodigoMunicipio:           "3550308",
		},
		Prestador: model.ServiceProvider{
			Cnpj:               "11.222.333/0001-81",
			InscricaoMunicipal: "12345",
			RazaoSocial:        "Acme Serviços Ltda",
			NomeFantasia:       "Acme",
			Endereco: &model.NFSeAddress{
				Endereco: "Av. Paulista", Numero: "1000", Bairro: "Bela Vista",
				CodigoMunicipio: "3550308", Uf: "SP", Cep: "01310-100",
			},
			Contato: &model.Contact{Telefone: "11 3000-0000", Email: "nfse@acme.com.br"},
		},
		Tomador: &model.ServiceTaker{
			CpfCnpj:     "529.982.247-25",
			RazaoSocial: "Maria da Silva",
			Endereco:    &model.NFSeAddress{Endereco: "Rua A", Uf: "SP"},
			Contato:     &model.Contact{Email: "maria@example.com"},
		},
		OrgaoGerador: &model.IssuingAuthority{CodigoMunicipio: "3550308", Uf: "SP"},
	}
}

func TestBuildNFSeXML_Structure(t *testing.T) {
	out := builder.BuildNFSeXML(fullNFSe())

	for _, want := range []string{
		"<CompNfse>", "<Nfse>", "<InfNfse>", "<IdentificacaoRps>",
		"<Servico>", "<Valores>", "<PrestadorServico>", "<TomadorServico>",
		"<OrgaoGerador>",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "<Servico>"), strings.Index(out, "<PrestadorServico>"))
	assert.Less(t, strings.Index(out, "<PrestadorServico>"), strings.Index(out, "<TomadorServico>"))
	assert.Less(t, strings.Index(out, "<TomadorServico>"), strings.Index(out, "<OrgaoGerador>"))
}

func TestBuildNFSeXML_Precision(t *testing.T) {
	out := builder.BuildNFSeXML(fullNFSe())

	for _, want := range []string{
		"<ValorServicos>1000.00</ValorServicos>",
		"<ValorPis>6.50</ValorPis>",
		"<IssRetido>2</IssRetido>",
		"<Aliquota>5.0000</Aliquota>",
		"<ValorLiquidoNfse>938.50</ValorLiquidoNfse>",
		"<DataEmissao>2024-03-10T09:15:00</DataEmissao>",
		"<Competencia>2024-03-01</Competencia>",
		"<IdentificacaoRps><Numero>55</Numero><Serie>A</Serie><Tipo>1</Tipo></IdentificacaoRps>",
		"<IdentificacaoPrestador><Cnpj>11222333000181</Cnpj><InscricaoMunicipal>12345</InscricaoMunicipal></IdentificacaoPrestador>",
		"<CpfCnpj><Cpf>52998224725</Cpf></CpfCnpj>",
		"<Cep>01310100</Cep>",
		"<Contato><Telefone>1130000000</Telefone><Email>nfse@acme.com.br</Email></Contato>",
		"<OrgaoGerador><CodigoMunicipio>3550308</CodigoMunicipio><Uf>SP</Uf></OrgaoGerador>",
	} {
		assert.Contains(t, out, want)
	}
}

func TestBuildNFSeXML_Omissions(t *testing.T) {
	in := fullNFSe()
	in.Numero = ""
	in.Servico.Valores = model.NFSeValues{ValorServicos: ptr("10")}
	in.Servico.CodigoCnae = ""
	in.Prestador.Endereco = nil
	in.Prestador.Contato = &model.Contact{}
	in.Tomador = nil
	in.OrgaoGerador = nil

	out := builder.BuildNFSeXML(in)
	assert.Contains(t, out, "<Valores><ValorServicos>10.00</ValorServicos></Valores>")
	for _, absent := range []string{
		"<InfNfse><Numero>", "<Aliquota>", "<IssRetido>", "<CodigoCnae>",
		"<Endereco>", "<Contato>", "<TomadorServico>", "<OrgaoGerador>",
	} {
		assert.NotContains(t, out, absent)
	}
}

func TestBuildNFSeXML_TakerCNPJ(t *testing.T) {
	in := fullNFSe()
	in.Tomador.CpfCnpj = "11.444.777/0001-61"
	out := builder.BuildNFSeXML(in)
	assert.Contains(t, out, "<CpfCnpj><Cnpj>11444777000161</Cnpj></CpfCnpj>")
}

func TestBuildNFSeXML_EscapesText(t *testing.T) {
	in := fullNFSe()
	in.Servico.Discriminacao = "Horas <extra> & deslocamento"
	out := builder.BuildNFSeXML(in)
	assert.Contains(t, out, "Horas &lt;extra")
	assert.Contains(t, out, "&amp; deslocamento")
}
