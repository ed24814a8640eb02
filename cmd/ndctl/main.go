// Command ndctl creates, inspects and verifies ndkit store files.
package main

func main() {
	execute()
}
