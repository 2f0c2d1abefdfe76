package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/transport"
)

func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURLs []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (transport *httpClientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	parsedURLs := make([]*url.URL, len(config.Transport.Endpoints))
	for i, server := range config.Transport.Endpoints {
		parsedURL, err := url.Parse(server)
		if err != nil {
			return err
		}
		parsedURLs[i] = parsedURL
	}

	transport.client = &http.Client{
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: max(10, config.Transport.ConnectionsPerEndpoint),
			IdleConnTimeout:     90 * time.Second,
			WriteBufferSize:     config.Transport.WriteBufferSize,
			ReadBufferSize:      config.Transport.ReadBufferSize,
		},
	}
	transport.serverURLs = parsedURLs
	transport.counter = 0
	transport.retryCount = max(1, config.Transport.RetryCount)

	return nil
}

func (transport *httpClientTransport) Send(ctx context.Context, shardId uint64, req []byte) (resp []byte, err error) {
	if transport.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	// Select the next server via round-robin
	idx := atomic.AddUint32(&transport.counter, 1) % uint32(len(transport.serverURLs))
	requestURL := fmt.Sprintf("%s/%v", transport.serverURLs[idx].String(), shardId)

	var httpResponse *http.Response
	for i := 0; i < transport.retryCount; i++ {
		// the body reader is consumed by every attempt, so the request is rebuilt
		httpRequest, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(req))
		if reqErr != nil {
			return nil, reqErr
		}
		httpResponse, err = transport.client.Do(httpRequest)
		if err == nil || ctx.Err() != nil {
			break
		}
		Logger.Debugf("Request attempt %d/%d failed: %v", i+1, transport.retryCount, err)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}

	return io.ReadAll(httpResponse.Body)
}

func (transport *httpClientTransport) Close() error {
	if transport.client != nil {
		transport.client.CloseIdleConnections()
	}

	transport.client = nil
	transport.serverURLs = nil

	return nil
}
