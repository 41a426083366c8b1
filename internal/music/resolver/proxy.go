package resolver

import (
	"context"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	"golang.org/x/net/proxy"
)

const httpTimeout = 15 * time.Second

// newHTTPClient returns a client dialing through proxyStr (http, https, socks4
// or socks5). An empty or unusable proxy yields a direct client.
func newHTTPClient(proxyStr string) *http.Client {
	direct := &http.Client{Timeout: httpTimeout}
	if proxyStr == "" {
		return direct
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Printf("[WARN] [Resolver] invalid proxy format: %v", err)
		return direct
	}

	var transport *http.Transport

	switch proxyURL.Scheme {
	case "http", "https":
		log.Printf("[INFO] [Resolver] using HTTP proxy: %s", proxyURL.Host)
		transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	case "socks5":
		log.Printf("[INFO] [Resolver] using SOCKS5 proxy: %s", proxyURL.Host)
		auth := &proxy.Auth{}
		if proxyURL.User != nil {
			auth.User = proxyURL.User.Username()
			if pass, ok := proxyURL.User.Password(); ok {
				auth.Password = pass
			}
		}
		dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[WARN] [Resolver] SOCKS5 dialer error: %v", err)
			break
		}
		transport = &http.Transport{DialContext: dialContext(dialer)}
	case "socks4":
		log.Printf("[INFO] [Resolver] using SOCKS4 proxy: %s", proxyURL.Host)
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{Timeout: 10 * time.Second})
		if err != nil {
			log.Printf("[WARN] [Resolver] SOCKS4 dialer error: %v", err)
			break
		}
		transport = &http.Transport{DialContext: dialContext(dialer)}
	default:
		log.Printf("[WARN] [Resolver] unsupported proxy scheme: %s", proxyURL.Scheme)
	}

	if transport == nil {
		return direct
	}
	return &http.Client{Timeout: httpTimeout, Transport: transport}
}

func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
