package common

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

type networkParams struct {
	// LakeBucket is the public NEAR Lake S3 bucket holding final blocks of the network.
	LakeBucket string
	LakeRegion string

	// ArchivalRPC answers point-in-time account queries at any historical block.
	ArchivalRPC string
}

var supportedNetworks = map[Network]networkParams{
	NetworkMainnet: {
		LakeBucket:  "near-lake-data-mainnet",
		LakeRegion:  "eu-central-1",
		ArchivalRPC: "https://archival-rpc.mainnet.near.org",
	},
	NetworkTestnet: {
		LakeBucket:  "near-lake-data-testnet",
		LakeRegion:  "eu-central-1",
		ArchivalRPC: "https://archival-rpc.testnet.near.org",
	},
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

// LakeBucket returns the default NEAR Lake bucket and its region.
func (n Network) LakeBucket() (bucket string, region string) {
	p := supportedNetworks[n]
	return p.LakeBucket, p.LakeRegion
}

// ArchivalRPC returns the default archival JSON-RPC endpoint.
func (n Network) ArchivalRPC() string {
	return supportedNetworks[n].ArchivalRPC
}

func (n Network) String() string {
	return string(n)
}
