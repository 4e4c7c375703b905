// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP and websocket client for a running xbounty node.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/vechain/xbounty/api"
	"github.com/vechain/xbounty/api/accounts"
	"github.com/vechain/xbounty/api/bounties"
	"github.com/vechain/xbounty/thor"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// RevertError is returned when the node rejected an invocation.
type RevertError struct {
	Receipt *bounties.Receipt
}

func (e *RevertError) Error() string {
	return "reverted: " + e.Receipt.Reason
}

// Client talks to the REST API of a node.
type Client struct {
	url     string
	c       *http.Client
	genesis atomic.Pointer[api.GenesisInfo]
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// Genesis returns the genesis of the node, cached after the first call.
func (c *Client) Genesis() (*api.GenesisInfo, error) {
	if gene := c.genesis.Load(); gene != nil {
		return gene, nil
	}

	body, err := c.httpGET(c.url + "/genesis")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve genesis - %w", err)
	}

	var gene api.GenesisInfo
	if err = json.Unmarshal(body, &gene); err != nil {
		return nil, fmt.Errorf("unable to unmarshal genesis - %w", err)
	}
	c.genesis.Store(&gene)
	return &gene, nil
}

// Fund locks the attached value against a bounty.
func (c *Client) Fund(req *bounties.FundRequest) (*bounties.Receipt, error) {
	return c.invoke("/bounties/fund", req)
}

// Register registers the caller as a solver of a bounty.
func (c *Client) Register(req *bounties.RegisterRequest) (*bounties.Receipt, error) {
	return c.invoke("/bounties/register", req)
}

// Release pays a bounty out to a registered solver.
func (c *Client) Release(req *bounties.ReleaseRequest) (*bounties.Receipt, error) {
	return c.invoke("/bounties/release", req)
}

// GetBounty retrieves a bounty by its key, ErrNotFound if it was never funded.
func (c *Client) GetBounty(owner, repoURL string, issueID uint64) (*bounties.Bounty, error) {
	query := url.Values{}
	query.Set("owner", owner)
	query.Set("url", repoURL)
	query.Set("issue", strconv.FormatUint(issueID, 10))
	return c.getBounty(c.url + "/bounties?" + query.Encode())
}

// GetBountyByID retrieves a bounty by its id, ErrNotFound if it was never funded.
func (c *Client) GetBountyByID(id thor.Bytes32) (*bounties.Bounty, error) {
	return c.getBounty(c.url + "/bounties/" + id.String())
}

func (c *Client) getBounty(url string) (*bounties.Bounty, error) {
	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve bounty - %w", err)
	}

	var b bounties.Bounty
	if err = json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("unable to unmarshal bounty - %w", err)
	}
	return &b, nil
}

// GetRawBounty retrieves the stored encoding of a bounty.
func (c *Client) GetRawBounty(id thor.Bytes32) (*bounties.RawBounty, error) {
	body, err := c.httpGET(c.url + "/bounties/" + id.String() + "/raw")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve raw bounty - %w", err)
	}

	var raw bounties.RawBounty
	if err = json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unable to unmarshal raw bounty - %w", err)
	}
	return &raw, nil
}

// GetStats retrieves the bounty count and the value locked by open bounties.
func (c *Client) GetStats() (*bounties.Stats, error) {
	body, err := c.httpGET(c.url + "/bounties/stats")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stats - %w", err)
	}

	var stats bounties.Stats
	if err = json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stats - %w", err)
	}
	return &stats, nil
}

// GetAccount retrieves the balance of an address.
func (c *Client) GetAccount(addr thor.Address) (*accounts.Account, error) {
	body, err := c.httpGET(c.url + "/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}

	var account accounts.Account
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("unable to unmarshal account - %w", err)
	}
	return &account, nil
}

// invoke posts a call and decodes its receipt. A reverted call returns the receipt
// along with a *RevertError.
func (c *Client) invoke(path string, payload any) (*bounties.Receipt, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}

	body, status, err := c.rawHTTPRequest(http.MethodPost, c.url+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var receipt bounties.Receipt
	switch status {
	case http.StatusOK:
		if err := json.Unmarshal(body, &receipt); err != nil {
			return nil, fmt.Errorf("unable to unmarshal receipt - %w", err)
		}
		return &receipt, nil
	case http.StatusBadRequest, http.StatusForbidden:
		// reverted calls respond with the receipt, malformed ones with a plain message
		if err := json.Unmarshal(body, &receipt); err == nil && receipt.Reverted {
			return &receipt, &RevertError{Receipt: &receipt}
		}
	}
	return nil, fmt.Errorf("%w: %d %s", ErrNot200Status, status, strings.TrimSpace(string(body)))
}

func (c *Client) httpGET(url string) ([]byte, error) {
	body, status, err := c.rawHTTPRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d %s", ErrNot200Status, status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) rawHTTPRequest(method string, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to create request - %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to do request - %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read response body - %w", err)
	}
	return body, resp.StatusCode, nil
}

// EventWrapper carries either an event or the error that ended the subscription.
type EventWrapper struct {
	Data  *bounties.Event
	Error error
}

// SubscribeEvents streams the committed events of the node, only those of the bounty
// when id is not nil. The channel is closed once the connection ends. Call the returned
// func to close the connection.
func (c *Client) SubscribeEvents(id *thor.Bytes32) (<-chan EventWrapper, func(), error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid url - %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return nil, nil, fmt.Errorf("invalid url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/subscriptions/event"
	if id != nil {
		u.RawQuery = "id=" + id.String()
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect - %w", err)
	}

	eventChan := make(chan EventWrapper)
	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var ev bounties.Event
			if err := conn.ReadJSON(&ev); err != nil {
				eventChan <- EventWrapper{Error: err}
				return
			}
			eventChan <- EventWrapper{Data: &ev}
		}
	}()
	return eventChan, func() { conn.Close() }, nil
}
