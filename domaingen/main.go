// Command domaingen generates domain model markers and field assertions.
package main

import (
	"ocm.software/open-component-model/bindings/go/domainmodel/cmd"
)

func main() {
	cmd.Execute()
}
