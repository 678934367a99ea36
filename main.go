package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/MarcGrol/bookingbackend/lib/myauth"
	"github.com/MarcGrol/bookingbackend/lib/mycache"
	"github.com/MarcGrol/bookingbackend/lib/myhttpclient"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mypublisher"
	"github.com/MarcGrol/bookingbackend/lib/mypubsub"
	"github.com/MarcGrol/bookingbackend/lib/myqueue"
	"github.com/MarcGrol/bookingbackend/lib/mystore"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/lib/myuuid"
	"github.com/MarcGrol/bookingbackend/services/bokun"
	"github.com/MarcGrol/bookingbackend/services/bookingrecord"
	"github.com/MarcGrol/bookingbackend/services/catalog"
	"github.com/MarcGrol/bookingbackend/services/checkout"
	"github.com/MarcGrol/bookingbackend/services/checkoutevents"
	"github.com/MarcGrol/bookingbackend/services/warmup"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "bookingbackend",
		Short: "Tour catalog and checkout backend on top of the Bokun booking platform",
		RunE:  serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(newSignCmd())
	root.AddCommand(newTokenCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(context.Background(), loadConfig())
		},
	}
}

func newSignCmd() *cobra.Command {
	var path string
	var method string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signed headers for a provider request",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			signer, err := bokun.NewSigner(bokun.Credentials{AccessKey: cfg.BokunAccessKey, SecretKey: cfg.BokunSecretKey}, mytime.RealNower{})
			if err != nil {
				return err
			}

			signed := signer.Sign(path, method)

			keys := []string{}
			for k := range signed.Headers {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, signed.Headers[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "path including query string, e.g. /activity.json/123?lang=EN")
	cmd.Flags().StringVar(&method, "method", http.MethodGet, "http method")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newTokenCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an identity token for local testing of the account endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.SessionHashKey == "" {
				return fmt.Errorf("SESSION_HASH_KEY is not set")
			}

			token, err := myauth.NewTokenAuthenticator([]byte(cfg.SessionHashKey), []byte(cfg.SessionBlockKey)).IssueToken(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func serve(c context.Context, cfg config) error {
	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	signer, err := bokun.NewSigner(bokun.Credentials{AccessKey: cfg.BokunAccessKey, SecretKey: cfg.BokunSecretKey}, nower)
	if err != nil {
		return fmt.Errorf("error creating signer: %s", err)
	}
	client := bokun.NewClient(cfg.BokunBaseURL, signer,
		myhttpclient.NewJSONHTTPClient(cfg.BokunTimeout, mylog.New("httpclient")), mylog.New("bokun"))

	cache, cacheCleanup, err := mycache.New(c, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("error connecting to cache: %s", err)
	}
	defer cacheCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		return fmt.Errorf("error creating queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return fmt.Errorf("error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		return fmt.Errorf("error creating publisher: %s", err)
	}
	defer publisherCleanup()
	err = publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}
	publisher.RegisterEndpoints(c, router)

	bookingStore, bookingStoreCleanup, err := newBookingStore(c, cfg)
	if err != nil {
		return fmt.Errorf("error creating booking store: %s", err)
	}
	defer bookingStoreCleanup()

	attemptStore, attemptStoreCleanup, err := mystore.New[checkout.Attempt](c)
	if err != nil {
		return fmt.Errorf("error creating checkout store: %s", err)
	}
	defer attemptStoreCleanup()

	authenticator := myauth.New([]byte(cfg.SessionHashKey), []byte(cfg.SessionBlockKey))

	catalogService := catalog.NewWebService(catalog.Config{
		ProductListID: cfg.ProductListID,
		CacheTTL:      cfg.CacheTTL,
	}, client, cache, nower)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		return fmt.Errorf("error registering catalog endpoints: %s", err)
	}

	checkoutService := checkout.NewWebService(checkout.Config{
		PhonePrefix:     cfg.PhonePrefix,
		ResubmitAnswers: cfg.ResubmitAnswers,
		PaymentTestMode: cfg.PaymentTestMode,
	}, client, attemptStore, bookingStore, publisher, checkout.NewPayer(), authenticator, nower, uuider)
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		return fmt.Errorf("error registering checkout endpoints: %s", err)
	}

	bookingRecordService := bookingrecord.NewWebService(bookingStore, authenticator)
	err = bookingRecordService.RegisterEndpoints(c, router)
	if err != nil {
		return fmt.Errorf("error registering account endpoints: %s", err)
	}

	warmup.NewService(cache.Ping).RegisterEndpoints(c, router)

	return startWebServerBlocking(cfg, router)
}

// newBookingStore prefers postgres when configured and falls back to the document store
func newBookingStore(c context.Context, cfg config) (bookingrecord.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		return bookingrecord.NewPostgresStore(c, cfg.DatabaseURL)
	}

	store, cleanup, err := mystore.New[bookingrecord.BookingRecord](c)
	if err != nil {
		return nil, nil, err
	}
	return bookingrecord.NewDocumentStore(store), cleanup, nil
}

func startWebServerBlocking(cfg config, router *mux.Router) error {
	log.Printf("Starting webserver on port %s (try http://localhost:%s, public base url: '%s')", cfg.Port, cfg.Port, cfg.PublicBaseURL)
	err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), router)
	if err != nil {
		return fmt.Errorf("error starting webserver on port %s: %s", cfg.Port, err)
	}
	return nil
}
