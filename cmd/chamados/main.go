package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/BruksfildServices01/chamados-pro/internal/apiclient"
	"github.com/BruksfildServices01/chamados-pro/internal/config"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/logging"
	"github.com/BruksfildServices01/chamados-pro/internal/ticketdraft"
)

// chamados abre um novo chamado pela API usando o mesmo rascunho do painel.
//
//	chamados --client <id> --date 2030-03-04 --time 14:00
//	chamados --document 11222333000181 --date 2030-03-04 --slots
func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	apiURL, token string

	clientID, document       string
	serviceID, newService    string
	date, clock              string
	duration                 int
	calculations, syncToGcal bool

	fields map[string]*string

	listSlots, connect, dryRun, debug bool
}

// campos de texto livre, no nome usado pela API
var textFields = []struct{ flag, field, usage string }{
	{"description", "description", "descrição do atendimento"},
	{"address", "address", "endereço (clientes PF/PJ)"},
	{"ticket-number", "ticketNumber", "número do chamado do parceiro (padrão: próximo número)"},
	{"final-client", "finalClient", "cliente final do parceiro"},
	{"ticket-value", "ticketValue", "valor do chamado (ex.: 150,00)"},
	{"charge-type", "chargeType", "DIARIA, CHAMADO_AVULSO, VALOR_FIXO ou VALOR_POR_HORA"},
	{"approved-by", "approvedBy", "aprovado por"},
	{"km-rate", "kmRate", "valor do km"},
	{"additional-hour-rate", "additionalHourRate", "valor da hora adicional"},
	{"service-address", "serviceAddress", "endereço do atendimento do parceiro"},
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := options{fields: map[string]*string{}}

	fs := pflag.NewFlagSet("chamados", pflag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api", cfg.APIBaseURL, "URL base da API")
	fs.StringVar(&opts.token, "token", cfg.APIToken, "token JWT (padrão: API_TOKEN)")
	fs.StringVarP(&opts.clientID, "client", "c", "", "id do cliente")
	fs.StringVar(&opts.document, "document", "", "busca o cliente por CPF/CNPJ")
	fs.StringVarP(&opts.serviceID, "service", "s", "", "id do serviço")
	fs.StringVar(&opts.newService, "new-service", "", "cadastra um serviço só com o nome e o usa")
	fs.StringVarP(&opts.date, "date", "d", "", "data YYYY-MM-DD")
	fs.StringVarP(&opts.clock, "time", "t", "", "horário HH:MM")
	fs.IntVar(&opts.duration, "duration", 0, "duração em horas (padrão da empresa ou do parceiro)")
	fs.BoolVar(&opts.calculations, "calculations", false, "liga ou desliga cálculos neste chamado, quando permitido")
	fs.BoolVar(&opts.syncToGcal, "sync-calendar", false, "cria o evento no Google Agenda")
	for _, f := range textFields {
		opts.fields[f.field] = fs.String(f.flag, "", f.usage)
	}
	fs.BoolVar(&opts.listSlots, "slots", false, "lista datas e horários livres e sai")
	fs.BoolVar(&opts.connect, "connect-calendar", false, "mostra a URL para conectar o Google Agenda e sai")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "valida o rascunho sem enviar")
	fs.BoolVar(&opts.debug, "debug", cfg.DebugEnabled, "logs de depuração")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("argumento inesperado: %s", fs.Arg(0))
	}

	log := logging.NewWithWriter(os.Stderr, opts.debug, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := apiclient.New(opts.apiURL, opts.token, log)
	draft := ticketdraft.New(api, log)

	if opts.connect {
		u, err := draft.ConnectCalendar(ctx)
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	}

	// 1️⃣ abre e carrega tudo em paralelo
	if err := draft.Open(ctx, ticketdraft.Preset{
		ClientID:  opts.clientID,
		ServiceID: opts.serviceID,
		Date:      opts.date,
		Time:      opts.clock,
	}); err != nil {
		return err
	}
	defer draft.Close()

	// 2️⃣ aplica as opções
	if err := apply(ctx, draft, fs, opts); err != nil {
		return err
	}

	if opts.listSlots {
		printAvailability(draft.Snapshot())
		return nil
	}

	// 3️⃣ valida e envia
	if fe := draft.Validate(); fe != nil {
		return describeFieldErrors(fe)
	}

	v := draft.Snapshot()
	fmt.Printf("%s %s → %s %s (%dh)\n", v.Draft.ScheduledDate, v.Draft.ScheduledTime, v.EndDate, v.EndTime, v.Draft.Duration)

	if opts.dryRun {
		fmt.Println("rascunho válido")
		return nil
	}

	ticket, err := draft.Submit(ctx)
	if err != nil {
		if fe, ok := domain.AsFieldErrors(err); ok {
			return describeFieldErrors(fe)
		}
		return err
	}

	fmt.Printf("chamado criado: %s\n", ticket.ID)
	if ticket.TicketNumber != "" {
		fmt.Printf("número: %s\n", ticket.TicketNumber)
	}
	return nil
}

func apply(ctx context.Context, draft *ticketdraft.Controller, fs *pflag.FlagSet, opts options) error {
	if opts.document != "" {
		client, found, err := draft.LookupDocument(ctx, opts.document)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("nenhum cliente com documento %s", opts.document)
		}
		fmt.Printf("cliente: %s\n", client.Name)
	}

	if opts.newService != "" {
		s, err := draft.CreateService(ctx, opts.newService)
		if err != nil {
			return err
		}
		fmt.Printf("serviço criado: %s (%s)\n", s.Name, s.ID)
	} else if opts.serviceID != "" {
		if err := draft.SetService(opts.serviceID); err != nil {
			return err
		}
	}

	// troca de serviço invalida os slots carregados na abertura
	if q := draft.Snapshot().Queries[ticketdraft.QuerySlots]; q.Stale {
		if err := draft.RefreshSlots(ctx); err != nil && opts.listSlots {
			return err
		}
	}

	if opts.duration > 0 {
		if err := draft.SetDuration(opts.duration); err != nil {
			return err
		}
	}

	for _, f := range textFields {
		if !fs.Changed(f.flag) {
			continue
		}
		if err := draft.SetField(f.field, *opts.fields[f.field]); err != nil {
			return err
		}
	}

	if fs.Changed("calculations") {
		if err := draft.SetCalculations(opts.calculations); err != nil {
			return err
		}
	}
	if fs.Changed("sync-calendar") {
		if err := draft.SetSyncToCalendar(opts.syncToGcal); err != nil {
			return err
		}
	}
	return nil
}

func printAvailability(v ticketdraft.View) {
	switch v.AvailableDates.State {
	case schedule.AvailabilityUnknown:
		fmt.Println("datas: sem informação de disponibilidade")
	case schedule.AvailabilityNone:
		fmt.Println("datas: nenhuma data livre")
	default:
		fmt.Printf("datas: %s\n", strings.Join(v.AvailableDates.Values.Sorted(), " "))
	}

	if len(v.UnavailableDays) > 0 {
		fmt.Printf("bloqueadas: %s\n", strings.Join(v.UnavailableDays, " "))
	}

	if v.Draft.ScheduledDate == "" {
		return
	}
	switch v.AvailableTimes.State {
	case schedule.AvailabilityUnknown:
		fmt.Printf("%s: horários desconhecidos\n", v.Draft.ScheduledDate)
	case schedule.AvailabilityNone:
		fmt.Printf("%s: sem horários livres\n", v.Draft.ScheduledDate)
	default:
		fmt.Printf("%s: %s\n", v.Draft.ScheduledDate, strings.Join(v.AvailableTimes.Values, " "))
	}
}

func describeFieldErrors(fe domain.FieldErrors) error {
	parts := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		parts = append(parts, f+": "+fe[f])
	}
	return fmt.Errorf("rascunho inválido (%s)", strings.Join(parts, ", "))
}
