package nonoconfig

import "strconv"

// ProxyEnv returns the environment variables a launched child should see so
// that cooperative tools (curl, git, npm, pip, ...) route outbound traffic
// through the SOCKS proxy named in the config's network section. This is
// only ever advisory: nothing forces a child to honor these variables. The
// kernel back-ends do not exempt the proxy's port, so with network.block
// set, connections to the proxy are refused along with every other
// outbound connection.
func (c *Config) ProxyEnv() []string {
	env := []string{"NONO_SANDBOX=1"}

	if c.Network.SOCKSProxyPort == 0 {
		return env
	}

	noProxy := []string{
		"localhost", "127.0.0.1", "::1", "*.local", ".local",
		"169.254.0.0/16", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16",
	}
	joined := ""
	for i, h := range noProxy {
		if i > 0 {
			joined += ","
		}
		joined += h
	}

	socksURL := "socks5h://localhost:" + strconv.Itoa(c.Network.SOCKSProxyPort)
	env = append(env,
		"NO_PROXY="+joined,
		"no_proxy="+joined,
		"ALL_PROXY="+socksURL,
		"all_proxy="+socksURL,
		"FTP_PROXY="+socksURL,
		"ftp_proxy="+socksURL,
	)
	return env
}
